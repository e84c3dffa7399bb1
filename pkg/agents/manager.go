package agents

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/globaltrade/platform/pkg/agent"
	"github.com/globaltrade/platform/pkg/llm"
)

const managerLogPrefix = "agents:manager"

// Manager owns the three agents and the orchestrator and exposes typed
// entry points for the HTTP and WebSocket layers.
type Manager struct {
	orchestrator *agent.Orchestrator
	translation  *TranslationAgent
}

// NewManager creates the agents and registers them with a fresh orchestrator.
func NewManager(completer llm.Completer) *Manager {
	translation := NewTranslationAgent(completer)
	m := &Manager{
		orchestrator: agent.NewOrchestrator(
			NewMarketResearchAgent(completer),
			translation,
			NewBusinessIntelligenceAgent(completer),
		),
		translation: translation,
	}
	slog.Info(fmt.Sprintf("%s - all agents initialized", managerLogPrefix))
	return m
}

// Start marks the agent system as running.
func (m *Manager) Start() { m.orchestrator.Start() }

// Stop marks the agent system as stopped.
func (m *Manager) Stop() { m.orchestrator.Stop() }

// Route dispatches a raw request to the named agent.
func (m *Manager) Route(ctx context.Context, agentName string, req agent.Request) *agent.Response {
	return m.orchestrator.Route(ctx, agentName, req)
}

// Status reports the orchestrator and agent status.
func (m *Manager) Status() *agent.SystemStatus { return m.orchestrator.Status() }

// AnalyzeMarket runs a market analysis for a product in a target country.
func (m *Manager) AnalyzeMarket(ctx context.Context, productName, targetCountry, productCategory string) *agent.Response {
	if productCategory == "" {
		productCategory = "General"
	}
	return m.Route(ctx, MarketResearchAgentName, agent.Request{
		"type":             TypeMarketAnalysis,
		"product_name":     productName,
		"target_country":   targetCountry,
		"product_category": productCategory,
	})
}

// DiscoverContacts finds business contacts in a target market.
func (m *Manager) DiscoverContacts(ctx context.Context, country, industry, companySize, contactType string) *agent.Response {
	if companySize == "" {
		companySize = "any"
	}
	if contactType == "" {
		contactType = "buyer"
	}
	return m.Route(ctx, MarketResearchAgentName, agent.Request{
		"type":         TypeContactDiscovery,
		"country":      country,
		"industry":     industry,
		"company_size": companySize,
		"contact_type": contactType,
	})
}

// AnalyzeTrends analyzes market trends for an industry in a country.
func (m *Manager) AnalyzeTrends(ctx context.Context, country, industry, timeframe string) *agent.Response {
	if industry == "" {
		industry = "General"
	}
	if timeframe == "" {
		timeframe = "2024-2025"
	}
	return m.Route(ctx, MarketResearchAgentName, agent.Request{
		"type":      TypeTrendAnalysis,
		"country":   country,
		"industry":  industry,
		"timeframe": timeframe,
	})
}

// MatchOpportunities matches business opportunities to the given products.
func (m *Manager) MatchOpportunities(ctx context.Context, products []map[string]any, targetCountries []string) *agent.Response {
	return m.Route(ctx, MarketResearchAgentName, agent.Request{
		"type":             TypeOpportunityMatching,
		"products":         products,
		"target_countries": targetCountries,
	})
}

// Translate translates text to a target language.
func (m *Manager) Translate(ctx context.Context, text, targetLanguage, sourceLanguage, translationContext string) *agent.Response {
	if sourceLanguage == "" {
		sourceLanguage = "auto"
	}
	if translationContext == "" {
		translationContext = "general"
	}
	return m.Route(ctx, TranslationAgentName, agent.Request{
		"type":            TypeTextTranslation,
		"text":            text,
		"target_language": targetLanguage,
		"source_language": sourceLanguage,
		"context":         translationContext,
	})
}

// BatchTranslate translates a list of texts to a target language.
func (m *Manager) BatchTranslate(ctx context.Context, texts []string, targetLanguage, sourceLanguage string) *agent.Response {
	if sourceLanguage == "" {
		sourceLanguage = "auto"
	}
	return m.Route(ctx, TranslationAgentName, agent.Request{
		"type":            TypeBatchTranslation,
		"texts":           texts,
		"target_language": targetLanguage,
		"source_language": sourceLanguage,
	})
}

// CulturalContext returns business communication guidelines for a country.
func (m *Manager) CulturalContext(ctx context.Context, country, businessContext, communicationType string) *agent.Response {
	if businessContext == "" {
		businessContext = "general"
	}
	if communicationType == "" {
		communicationType = "email"
	}
	return m.Route(ctx, TranslationAgentName, agent.Request{
		"type":               TypeCulturalContext,
		"country":            country,
		"business_context":   businessContext,
		"communication_type": communicationType,
	})
}

// BusinessEtiquette returns etiquette guidelines for a situation in a country.
func (m *Manager) BusinessEtiquette(ctx context.Context, country, situation string) *agent.Response {
	return m.Route(ctx, TranslationAgentName, agent.Request{
		"type":      TypeBusinessEtiquette,
		"country":   country,
		"situation": situation,
	})
}

// DetectLanguage detects the language of a text.
func (m *Manager) DetectLanguage(ctx context.Context, text string) *agent.Response {
	return m.Route(ctx, TranslationAgentName, agent.Request{
		"type": TypeLanguageDetection,
		"text": text,
	})
}

// TranslateChatMessage translates a chat message between two user languages.
func (m *Manager) TranslateChatMessage(ctx context.Context, message, senderLanguage, receiverLanguage string) *ChatTranslation {
	return m.translation.TranslateChatMessage(ctx, message, senderLanguage, receiverLanguage)
}

// AnalyzeUserPerformance analyzes a user's platform performance.
func (m *Manager) AnalyzeUserPerformance(ctx context.Context, userID int64, timePeriod string) *agent.Response {
	if timePeriod == "" {
		timePeriod = "30_days"
	}
	return m.Route(ctx, BusinessIntelligenceAgentName, agent.Request{
		"type":        TypeUserAnalytics,
		"user_id":     userID,
		"time_period": timePeriod,
	})
}

// AnalyzeProducts analyzes product performance.
func (m *Manager) AnalyzeProducts(ctx context.Context, products []map[string]any) *agent.Response {
	return m.Route(ctx, BusinessIntelligenceAgentName, agent.Request{
		"type":     TypeProductInsights,
		"products": products,
	})
}

// MarketRecommendations generates expansion recommendations for a user profile.
func (m *Manager) MarketRecommendations(ctx context.Context, userProfile map[string]any, industry string) *agent.Response {
	if industry == "" {
		industry = "General"
	}
	return m.Route(ctx, BusinessIntelligenceAgentName, agent.Request{
		"type":         TypeMarketRecommendations,
		"user_profile": userProfile,
		"industry":     industry,
	})
}

// AnalyzeCompetition analyzes the competitive landscape.
func (m *Manager) AnalyzeCompetition(ctx context.Context, industry, targetMarket string) *agent.Response {
	return m.Route(ctx, BusinessIntelligenceAgentName, agent.Request{
		"type":          TypeCompetitiveAnalysis,
		"industry":      industry,
		"target_market": targetMarket,
	})
}

// GrowthOpportunities identifies growth opportunities from user data.
func (m *Manager) GrowthOpportunities(ctx context.Context, userData map[string]any) *agent.Response {
	return m.Route(ctx, BusinessIntelligenceAgentName, agent.Request{
		"type":      TypeGrowthOpportunities,
		"user_data": userData,
	})
}

// ComprehensiveResult aggregates the three sub-analyses of a comprehensive
// market research request. A failed sub-analysis leaves its slot nil and
// adds an entry to Errors; Success stays true as long as the aggregation
// itself ran.
type ComprehensiveResult struct {
	Success        bool           `json:"success"`
	ResearchID     any            `json:"research_id,omitempty"`
	ProductName    string         `json:"product_name"`
	TargetCountry  string         `json:"target_country"`
	MarketAnalysis map[string]any `json:"market_analysis"`
	Contacts       map[string]any `json:"contacts"`
	Trends         map[string]any `json:"trends"`
	Errors         []string       `json:"errors"`
}

// ComprehensiveResearch runs market analysis, contact discovery, and trend
// analysis concurrently and joins on all three, tolerating partial failure.
func (m *Manager) ComprehensiveResearch(ctx context.Context, researchData map[string]any) *ComprehensiveResult {
	productName, _ := researchData["product_name"].(string)
	if productName == "" {
		productName = "Unknown Product"
	}
	targetCountry, _ := researchData["target_country"].(string)
	if targetCountry == "" {
		targetCountry = "Global"
	}
	productCategory, _ := researchData["product_category"].(string)
	if productCategory == "" {
		productCategory = "General"
	}

	var (
		wg                       sync.WaitGroup
		market, contacts, trends *agent.Response
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		market = m.AnalyzeMarket(ctx, productName, targetCountry, productCategory)
	}()
	go func() {
		defer wg.Done()
		contacts = m.DiscoverContacts(ctx, targetCountry, productCategory, "", "")
	}()
	go func() {
		defer wg.Done()
		trends = m.AnalyzeTrends(ctx, targetCountry, productCategory, "")
	}()
	wg.Wait()

	result := &ComprehensiveResult{
		Success:       true,
		ResearchID:    researchData["research_id"],
		ProductName:   productName,
		TargetCountry: targetCountry,
		Errors:        []string{},
	}

	if market != nil && market.Success {
		result.MarketAnalysis = market.Data
	} else {
		result.Errors = append(result.Errors, "Market analysis failed")
	}
	if contacts != nil && contacts.Success {
		result.Contacts = contacts.Data
	} else {
		result.Errors = append(result.Errors, "Contact discovery failed")
	}
	if trends != nil && trends.Success {
		result.Trends = trends.Data
	} else {
		result.Errors = append(result.Errors, "Trend analysis failed")
	}

	if len(result.Errors) > 0 {
		slog.Warn(fmt.Sprintf("%s - comprehensive research degraded: %v", managerLogPrefix, result.Errors))
	}
	return result
}
