package agents

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/globaltrade/platform/pkg/agent"
	"github.com/globaltrade/platform/pkg/llm"
)

const intelligenceLogPrefix = "agents:intelligence"

// BusinessIntelligenceAgentName is the registry name of the business
// intelligence component.
const BusinessIntelligenceAgentName = "BusinessIntelligenceAgent"

// Request kinds handled by the business intelligence agent.
const (
	TypeUserAnalytics         = "user_analytics"
	TypeProductInsights       = "product_insights"
	TypeMarketRecommendations = "market_recommendations"
	TypeCompetitiveAnalysis   = "competitive_analysis"
	TypeGrowthOpportunities   = "growth_opportunities"
)

// BusinessIntelligenceAgent answers analytics, recommendation, competitive
// analysis, and growth opportunity requests.
type BusinessIntelligenceAgent struct {
	completer llm.Completer
}

// NewBusinessIntelligenceAgent creates the business intelligence component.
func NewBusinessIntelligenceAgent(completer llm.Completer) *BusinessIntelligenceAgent {
	return &BusinessIntelligenceAgent{completer: completer}
}

// Name implements agent.Agent.
func (a *BusinessIntelligenceAgent) Name() string { return BusinessIntelligenceAgentName }

// Capabilities implements agent.Agent.
func (a *BusinessIntelligenceAgent) Capabilities() []string {
	return []string{TypeUserAnalytics, TypeProductInsights, TypeMarketRecommendations, TypeCompetitiveAnalysis, TypeGrowthOpportunities}
}

// Process implements agent.Agent.
func (a *BusinessIntelligenceAgent) Process(ctx context.Context, req agent.Request) *agent.Response {
	agent.LogRequest(a.Name(), "business_intelligence", req)

	var resp *agent.Response
	switch req.RequestType() {
	case TypeUserAnalytics:
		resp = a.userAnalytics(ctx, req)
	case TypeProductInsights:
		resp = a.productInsights(ctx, req)
	case TypeMarketRecommendations:
		resp = a.marketRecommendations(ctx, req)
	case TypeCompetitiveAnalysis:
		resp = a.competitiveAnalysis(ctx, req)
	case TypeGrowthOpportunities:
		resp = a.growthOpportunities(ctx, req)
	default:
		resp = agent.ErrorResponse(a.Name(), fmt.Sprintf("Unknown request type: %s", req.RequestType()))
	}

	agent.LogResponse(a.Name(), resp)
	return resp
}

func (a *BusinessIntelligenceAgent) userAnalytics(ctx context.Context, req agent.Request) *agent.Response {
	if _, ok := agent.Validate(a.Name(), req, "user_id"); !ok {
		return agent.ErrorResponse(a.Name(), "Missing required fields for user analytics")
	}

	userID := req["user_id"]
	timePeriod := req.StringOr("time_period", "30_days")

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: "You are a business analytics expert specializing in export business performance metrics."},
		{Role: llm.RoleUser, Content: userAnalyticsPrompt(timePeriod)},
	}

	completion, err := a.completer.Complete(ctx, messages)
	if err != nil {
		return agent.ErrorResponse(a.Name(), fmt.Sprintf("User analytics failed: %v", err))
	}

	analytics, ok := agent.DecodeObject(a.Name(), completion)
	if !ok {
		analytics = map[string]any{
			"performance_score":  75,
			"profile_completion": 80,
			"recommendations": []string{
				"Complete your business profile",
				"Add more product photos",
				"Respond to messages faster",
			},
			"analysis_text": completion,
		}
	}

	return agent.SuccessResponse(a.Name(), map[string]any{
		"user_analytics": analytics,
		"user_id":        userID,
		"time_period":    timePeriod,
		"generated_at":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *BusinessIntelligenceAgent) productInsights(ctx context.Context, req agent.Request) *agent.Response {
	if _, ok := agent.Validate(a.Name(), req, "products"); !ok {
		return agent.ErrorResponse(a.Name(), "Missing required fields for product insights")
	}

	products := req.MapSlice("products")
	insights := make([]map[string]any, 0, len(products))

	for _, product := range products {
		productName, _ := product["name"].(string)
		if productName == "" {
			productName = "Unknown Product"
		}
		productCategory, _ := product["category"].(string)
		if productCategory == "" {
			productCategory = "General"
		}

		messages := []llm.Message{
			{Role: llm.RoleSystem, Content: "You are a product market analyst with expertise in international trade and product positioning."},
			{Role: llm.RoleUser, Content: productInsightsPrompt(productName, productCategory)},
		}

		completion, err := a.completer.Complete(ctx, messages)
		if err != nil {
			slog.Error(fmt.Sprintf("%s - analyzing product %s: %v", intelligenceLogPrefix, productName, err))
			continue
		}

		if insight, ok := agent.DecodeObject(a.Name(), completion); ok {
			insight["product"] = product
			insights = append(insights, insight)
		} else {
			insights = append(insights, map[string]any{
				"product":           product,
				"performance_score": 70,
				"analysis_text":     completion,
				"optimization_tips": []string{"Improve product description", "Add more images"},
			})
		}
	}

	var portfolioScore float64
	if len(insights) > 0 {
		for _, insight := range insights {
			portfolioScore += scoreOf(insight)
		}
		portfolioScore /= float64(len(insights))
	}

	return agent.SuccessResponse(a.Name(), map[string]any{
		"product_insights":        insights,
		"total_products_analyzed": len(products),
		"overall_portfolio_score": portfolioScore,
	})
}

// scoreOf reads an insight's performance_score, defaulting to 70 to mirror
// the fallback shape.
func scoreOf(insight map[string]any) float64 {
	switch v := insight["performance_score"].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 70
}

func (a *BusinessIntelligenceAgent) marketRecommendations(ctx context.Context, req agent.Request) *agent.Response {
	if _, ok := agent.Validate(a.Name(), req, "user_profile"); !ok {
		return agent.ErrorResponse(a.Name(), "Missing required fields for market recommendations")
	}

	userProfile := req.Map("user_profile")
	userCountry, _ := userProfile["country"].(string)
	if userCountry == "" {
		userCountry = "Unknown"
	}
	userIndustry := req.StringOr("industry", "General")

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: "You are a strategic business consultant specializing in international market expansion and export business development."},
		{Role: llm.RoleUser, Content: marketRecommendationsPrompt(userCountry, userIndustry)},
	}

	completion, err := a.completer.Complete(ctx, messages)
	if err != nil {
		return agent.ErrorResponse(a.Name(), fmt.Sprintf("Market recommendations failed: %v", err))
	}

	recommendations, ok := agent.DecodeObject(a.Name(), completion)
	if !ok {
		recommendations = map[string]any{
			"recommendations_text": completion,
			"priority_markets": []map[string]any{
				{"country": "Global", "opportunity_score": 75},
			},
			"strategic_recommendations": []map[string]any{
				{"recommendation": "Conduct market research", "priority": "high"},
			},
		}
	}

	return agent.SuccessResponse(a.Name(), map[string]any{
		"market_recommendations": recommendations,
		"user_country":           userCountry,
		"industry":               userIndustry,
	})
}

func (a *BusinessIntelligenceAgent) competitiveAnalysis(ctx context.Context, req agent.Request) *agent.Response {
	if _, ok := agent.Validate(a.Name(), req, "industry", "target_market"); !ok {
		return agent.ErrorResponse(a.Name(), "Missing required fields for competitive analysis")
	}

	industry := req.String("industry")
	targetMarket := req.String("target_market")

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: "You are a competitive intelligence analyst with expertise in global market analysis."},
		{Role: llm.RoleUser, Content: competitiveAnalysisPrompt(industry, targetMarket)},
	}

	completion, err := a.completer.Complete(ctx, messages)
	if err != nil {
		return agent.ErrorResponse(a.Name(), fmt.Sprintf("Competitive analysis failed: %v", err))
	}

	competition, ok := agent.DecodeObject(a.Name(), completion)
	if !ok {
		competition = map[string]any{
			"analysis_text":   completion,
			"market_dynamics": map[string]any{"competition_intensity": "medium"},
			"recommendations": []string{"Conduct detailed competitive research"},
		}
	}

	return agent.SuccessResponse(a.Name(), map[string]any{
		"competitive_analysis": competition,
		"industry":             industry,
		"target_market":        targetMarket,
	})
}

func (a *BusinessIntelligenceAgent) growthOpportunities(ctx context.Context, req agent.Request) *agent.Response {
	if _, ok := agent.Validate(a.Name(), req, "user_data"); !ok {
		return agent.ErrorResponse(a.Name(), "Missing required fields for growth opportunities")
	}

	userData := req.Map("user_data")
	var currentMarkets []string
	if markets, ok := userData["current_markets"].([]any); ok {
		for _, m := range markets {
			if s, ok := m.(string); ok {
				currentMarkets = append(currentMarkets, s)
			}
		}
	}
	productCount := 0
	if products, ok := userData["products"].([]any); ok {
		productCount = len(products)
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: "You are a business growth strategist with expertise in international expansion and business development."},
		{Role: llm.RoleUser, Content: growthOpportunitiesPrompt(currentMarkets, productCount)},
	}

	completion, err := a.completer.Complete(ctx, messages)
	if err != nil {
		return agent.ErrorResponse(a.Name(), fmt.Sprintf("Growth opportunity analysis failed: %v", err))
	}

	growth, ok := agent.DecodeObject(a.Name(), completion)
	if !ok {
		growth = map[string]any{
			"growth_analysis": completion,
			"growth_opportunities": []map[string]any{
				{
					"type":             "market_expansion",
					"title":            "Explore new markets",
					"potential_impact": "high",
					"key_steps":        []string{"Market research", "Local partnerships"},
				},
			},
		}
	}

	return agent.SuccessResponse(a.Name(), map[string]any{
		"growth_opportunities": growth,
		"analysis_date":        time.Now().UTC().Format(time.RFC3339),
	})
}
