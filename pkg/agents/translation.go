package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/globaltrade/platform/pkg/agent"
	"github.com/globaltrade/platform/pkg/llm"
)

// TranslationAgentName is the registry name of the translation component.
const TranslationAgentName = "TranslationAgent"

// Request kinds handled by the translation agent.
const (
	TypeTextTranslation   = "text_translation"
	TypeBatchTranslation  = "batch_translation"
	TypeCulturalContext   = "cultural_context"
	TypeBusinessEtiquette = "business_etiquette"
	TypeLanguageDetection = "language_detection"
)

// supportedLanguages maps ISO 639-1 codes to display names. Translation
// targets outside this set are rejected; detection results outside it
// default to English.
var supportedLanguages = map[string]string{
	"en": "English", "es": "Spanish", "fr": "French", "de": "German",
	"it": "Italian", "pt": "Portuguese", "ru": "Russian", "zh": "Chinese",
	"ja": "Japanese", "ko": "Korean", "ar": "Arabic", "hi": "Hindi",
	"id": "Indonesian", "th": "Thai", "vi": "Vietnamese", "tr": "Turkish",
	"pl": "Polish", "nl": "Dutch", "sv": "Swedish", "da": "Danish",
}

// SupportedLanguages returns the code-to-name mapping of translatable languages.
func SupportedLanguages() map[string]string {
	out := make(map[string]string, len(supportedLanguages))
	for code, name := range supportedLanguages {
		out[code] = name
	}
	return out
}

// TranslationAgent answers translation, cultural context, etiquette, and
// language detection requests.
type TranslationAgent struct {
	completer llm.Completer
}

// NewTranslationAgent creates the translation component.
func NewTranslationAgent(completer llm.Completer) *TranslationAgent {
	return &TranslationAgent{completer: completer}
}

// Name implements agent.Agent.
func (a *TranslationAgent) Name() string { return TranslationAgentName }

// Capabilities implements agent.Agent.
func (a *TranslationAgent) Capabilities() []string {
	return []string{TypeTextTranslation, TypeBatchTranslation, TypeCulturalContext, TypeBusinessEtiquette, TypeLanguageDetection}
}

// Process implements agent.Agent.
func (a *TranslationAgent) Process(ctx context.Context, req agent.Request) *agent.Response {
	agent.LogRequest(a.Name(), "translation", req)

	var resp *agent.Response
	switch req.RequestType() {
	case TypeTextTranslation:
		resp = a.translateText(ctx, req)
	case TypeBatchTranslation:
		resp = a.batchTranslate(ctx, req)
	case TypeCulturalContext:
		resp = a.culturalContext(ctx, req)
	case TypeBusinessEtiquette:
		resp = a.businessEtiquette(ctx, req)
	case TypeLanguageDetection:
		resp = a.detectLanguage(ctx, req)
	default:
		resp = agent.ErrorResponse(a.Name(), fmt.Sprintf("Unknown request type: %s", req.RequestType()))
	}

	agent.LogResponse(a.Name(), resp)
	return resp
}

func (a *TranslationAgent) translateText(ctx context.Context, req agent.Request) *agent.Response {
	if _, ok := agent.Validate(a.Name(), req, "text", "target_language"); !ok {
		return agent.ErrorResponse(a.Name(), "Missing required fields for text translation")
	}

	text := req.String("text")
	targetLanguage := req.String("target_language")
	sourceLanguage := req.StringOr("source_language", "auto")
	translationContext := req.StringOr("context", "general")

	targetName, supported := supportedLanguages[targetLanguage]
	if !supported {
		return agent.ErrorResponse(a.Name(), fmt.Sprintf("Unsupported target language: %s", targetLanguage))
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: "You are a professional translator with expertise in business and cultural communication. Provide accurate, contextually appropriate translations."},
		{Role: llm.RoleUser, Content: translationPrompt(text, targetName, sourceLanguage, translationContext)},
	}

	translated, err := a.completer.Complete(ctx, messages)
	if err != nil {
		return agent.ErrorResponse(a.Name(), fmt.Sprintf("Translation failed: %v", err))
	}

	detected := sourceLanguage
	if sourceLanguage == "auto" {
		detected = a.detectLanguageCode(ctx, text)
	}

	return agent.SuccessResponse(a.Name(), map[string]any{
		"original_text":   text,
		"translated_text": translated,
		"source_language": detected,
		"target_language": targetLanguage,
		"context":         translationContext,
		"confidence":      0.95,
	})
}

func (a *TranslationAgent) batchTranslate(ctx context.Context, req agent.Request) *agent.Response {
	if _, ok := agent.Validate(a.Name(), req, "texts", "target_language"); !ok {
		return agent.ErrorResponse(a.Name(), "Missing required fields for batch translation")
	}

	texts := req.StringSlice("texts")
	if texts == nil {
		return agent.ErrorResponse(a.Name(), "Texts must be a list")
	}
	targetLanguage := req.String("target_language")
	sourceLanguage := req.StringOr("source_language", "auto")

	// One element failing never aborts the batch: the original text stands
	// in for the translation so the output always matches the input length.
	translations := make([]map[string]any, 0, len(texts))
	successful := 0

	for i, text := range texts {
		elem := agent.Request{
			"type":            TypeTextTranslation,
			"text":            text,
			"target_language": targetLanguage,
			"source_language": sourceLanguage,
			"context":         req.StringOr("context", "general"),
		}

		result := a.translateText(ctx, elem)
		if result.Success {
			translations = append(translations, map[string]any{
				"index":      i,
				"original":   text,
				"translated": result.Data["translated_text"],
				"success":    true,
			})
			successful++
		} else {
			translations = append(translations, map[string]any{
				"index":      i,
				"original":   text,
				"translated": text,
				"success":    false,
				"error":      result.Error,
			})
		}
	}

	return agent.SuccessResponse(a.Name(), map[string]any{
		"translations":            translations,
		"total_texts":             len(texts),
		"successful_translations": successful,
		"target_language":         targetLanguage,
	})
}

func (a *TranslationAgent) culturalContext(ctx context.Context, req agent.Request) *agent.Response {
	if _, ok := agent.Validate(a.Name(), req, "country"); !ok {
		return agent.ErrorResponse(a.Name(), "Missing required fields for cultural context")
	}

	country := req.String("country")
	businessContext := req.StringOr("business_context", "general")
	communicationType := req.StringOr("communication_type", "email")

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: "You are a cultural business consultant with deep knowledge of international business practices and cultural norms."},
		{Role: llm.RoleUser, Content: culturalContextPrompt(country, businessContext, communicationType)},
	}

	completion, err := a.completer.Complete(ctx, messages)
	if err != nil {
		return agent.ErrorResponse(a.Name(), fmt.Sprintf("Cultural context analysis failed: %v", err))
	}

	culturalData, ok := agent.DecodeObject(a.Name(), completion)
	if !ok {
		culturalData = map[string]any{
			"cultural_advice": completion,
			"country":         country,
			"tips": []string{
				"Research local customs",
				"Be respectful of cultural differences",
			},
		}
	}

	return agent.SuccessResponse(a.Name(), map[string]any{
		"cultural_context":   culturalData,
		"country":            country,
		"business_context":   businessContext,
		"communication_type": communicationType,
	})
}

func (a *TranslationAgent) businessEtiquette(ctx context.Context, req agent.Request) *agent.Response {
	if _, ok := agent.Validate(a.Name(), req, "country", "situation"); !ok {
		return agent.ErrorResponse(a.Name(), "Missing required fields for business etiquette")
	}

	country := req.String("country")
	situation := req.String("situation")

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: "You are a business etiquette expert with extensive knowledge of international business protocols."},
		{Role: llm.RoleUser, Content: businessEtiquettePrompt(country, situation)},
	}

	completion, err := a.completer.Complete(ctx, messages)
	if err != nil {
		return agent.ErrorResponse(a.Name(), fmt.Sprintf("Business etiquette analysis failed: %v", err))
	}

	etiquetteData, ok := agent.DecodeObject(a.Name(), completion)
	if !ok {
		etiquetteData = map[string]any{
			"etiquette_advice": completion,
			"general_tips": []string{
				"Be respectful",
				"Research local customs",
				"Be punctual",
			},
		}
	}

	return agent.SuccessResponse(a.Name(), map[string]any{
		"business_etiquette": etiquetteData,
		"country":            country,
		"situation":          situation,
	})
}

func (a *TranslationAgent) detectLanguage(ctx context.Context, req agent.Request) *agent.Response {
	if _, ok := agent.Validate(a.Name(), req, "text"); !ok {
		return agent.ErrorResponse(a.Name(), "Missing required fields for language detection")
	}

	text := req.String("text")
	detected := a.detectLanguageCode(ctx, text)

	name := supportedLanguages[detected]
	if name == "" {
		name = "Unknown"
	}

	return agent.SuccessResponse(a.Name(), map[string]any{
		"text":              text,
		"detected_language": detected,
		"language_name":     name,
		"confidence":        0.9,
	})
}

// detectLanguageCode asks the model for an ISO 639-1 code and defaults to
// English when the reply is unusable or the call fails.
func (a *TranslationAgent) detectLanguageCode(ctx context.Context, text string) string {
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: "You are a language detection expert. Return only the ISO 639-1 language code, nothing else."},
		{Role: llm.RoleUser, Content: languageDetectionPrompt(text)},
	}

	detected, err := a.completer.Complete(ctx, messages)
	if err != nil {
		return "en"
	}

	code := strings.ToLower(strings.TrimSpace(detected))
	if _, ok := supportedLanguages[code]; ok {
		return code
	}
	return "en"
}

// ChatTranslation is the result of translating one chat message between a
// sender and a receiver with different preferred languages.
type ChatTranslation struct {
	Original         string `json:"original"`
	Translated       string `json:"translated"`
	NeedsTranslation bool   `json:"needs_translation"`
	SourceLanguage   string `json:"source_language,omitempty"`
	TargetLanguage   string `json:"target_language,omitempty"`
	Error            string `json:"error,omitempty"`
}

// TranslateChatMessage translates a chat message for the receiver. Matching
// languages short-circuit; a failed translation keeps the original text.
func (a *TranslationAgent) TranslateChatMessage(ctx context.Context, message, senderLanguage, receiverLanguage string) *ChatTranslation {
	if senderLanguage == receiverLanguage {
		return &ChatTranslation{Original: message, Translated: message, NeedsTranslation: false}
	}

	result := a.Process(ctx, agent.Request{
		"type":            TypeTextTranslation,
		"text":            message,
		"source_language": senderLanguage,
		"target_language": receiverLanguage,
		"context":         "business_chat",
	})

	if !result.Success {
		return &ChatTranslation{
			Original:         message,
			Translated:       message,
			NeedsTranslation: true,
			Error:            result.Error,
		}
	}

	translated, _ := result.Data["translated_text"].(string)
	return &ChatTranslation{
		Original:         message,
		Translated:       translated,
		NeedsTranslation: true,
		SourceLanguage:   senderLanguage,
		TargetLanguage:   receiverLanguage,
	}
}
