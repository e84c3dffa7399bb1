package agents

import (
	"fmt"
	"strings"
)

// Prompt builders are pure string templating: each renders the instruction
// text and documents the exact JSON shape the model is asked to return.
// Nothing here touches the network.

func marketAnalysisPrompt(productName, targetCountry, productCategory string) string {
	return fmt.Sprintf(`Analyze the market for %s in %s. Consider:
1. Market size and growth potential
2. Key competitors and market share
3. Consumer preferences and trends
4. Regulatory environment
5. Distribution channels
6. Pricing strategies
7. Market entry barriers
8. Cultural considerations

Product Category: %s

Provide a comprehensive market analysis in JSON format with the following structure:
{
    "market_size": {"value": "amount", "currency": "USD", "year": "2024"},
    "growth_rate": "percentage",
    "market_maturity": "emerging/growing/mature/declining",
    "competition_level": "low/medium/high",
    "key_competitors": ["competitor1", "competitor2"],
    "consumer_preferences": ["preference1", "preference2"],
    "regulatory_requirements": ["requirement1", "requirement2"],
    "distribution_channels": ["channel1", "channel2"],
    "price_range": {"min": amount, "max": amount, "currency": "USD"},
    "market_entry_barriers": ["barrier1", "barrier2"],
    "cultural_considerations": ["consideration1", "consideration2"],
    "opportunities": ["opportunity1", "opportunity2"],
    "threats": ["threat1", "threat2"],
    "recommendations": ["recommendation1", "recommendation2"]
}`, productName, targetCountry, productCategory)
}

func contactDiscoveryPrompt(country, industry, companySize, contactType string) string {
	return fmt.Sprintf(`Generate a list of 5-10 realistic business contacts for %ss in the %s industry in %s.

For each contact, provide:
- Company name (realistic for the country)
- Contact person name (appropriate for the country)
- Position/Title
- Email address (realistic format)
- Phone number (correct format for the country)
- Company address (realistic address format)
- Company size: %s
- Website URL
- Brief company description
- Verification status (verified/unverified)

Return as JSON array with this structure:
[{
    "company_name": "string",
    "contact_person": "string",
    "position": "string",
    "email": "string",
    "phone": "string",
    "address": "string",
    "company_size": "string",
    "website": "string",
    "description": "string",
    "verified": boolean,
    "industry": "string",
    "country": "string"
}]`, contactType, industry, country, companySize)
}

func trendAnalysisPrompt(country, industry, timeframe string) string {
	return fmt.Sprintf(`Analyze current and emerging market trends for the %s industry in %s for the period %s.

Include:
1. Consumer behavior trends
2. Technology adoption trends
3. Regulatory changes
4. Economic factors
5. Competitive landscape changes
6. Supply chain trends
7. Sustainability trends
8. Digital transformation trends

Return as JSON with this structure:
{
    "trends": [
        {
            "title": "trend name",
            "description": "detailed description",
            "impact": "high/medium/low",
            "timeframe": "when this trend is relevant",
            "category": "consumer/technology/regulatory/economic/competitive/supply_chain/sustainability/digital"
        }
    ],
    "market_outlook": "positive/neutral/negative",
    "key_opportunities": ["opportunity1", "opportunity2"],
    "potential_risks": ["risk1", "risk2"],
    "recommendations": ["recommendation1", "recommendation2"]
}`, industry, country, timeframe)
}

func opportunityMatchingPrompt(productName, productCategory string, targetCountries []string) string {
	targets := "Global"
	if len(targetCountries) > 0 {
		targets = strings.Join(targetCountries, ", ")
	}
	return fmt.Sprintf(`Find business opportunities for %s (category: %s) in global markets.

Consider:
1. Market demand
2. Competition level
3. Entry barriers
4. Potential revenue
5. Cultural fit
6. Regulatory requirements

Target countries: %s

Return top 3 opportunities as JSON:
[{
    "title": "opportunity title",
    "description": "detailed description",
    "market": "country/region",
    "potential_value": "revenue estimate",
    "confidence": 85,
    "requirements": ["requirement1", "requirement2"],
    "next_steps": ["step1", "step2"],
    "timeline": "estimated timeline",
    "risk_level": "low/medium/high"
}]`, productName, productCategory, targets)
}

func translationPrompt(text, targetLanguageName, sourceLanguage, context string) string {
	source := sourceLanguage
	if source == "auto" {
		source = "auto-detect"
	}
	return fmt.Sprintf(`Translate the following text to %s.

Context: %s (This helps determine the appropriate tone and terminology)
Source language: %s

Text to translate: "%s"

Requirements:
1. Maintain the original meaning and tone
2. Use appropriate business/professional language if context is business
3. Consider cultural nuances
4. Preserve any technical terms appropriately
5. Only return the translated text, no explanations

Translation:`, targetLanguageName, context, source, text)
}

func languageDetectionPrompt(text string) string {
	return fmt.Sprintf(`Detect the language of the following text and return only the ISO 639-1 language code (e.g., 'en' for English, 'es' for Spanish, 'fr' for French, etc.).

Text: "%s"

Language code:`, text)
}

func culturalContextPrompt(country, businessContext, communicationType string) string {
	return fmt.Sprintf(`Provide cultural context and communication guidelines for doing business in %s.

Business context: %s
Communication type: %s

Include information about:
1. Communication style (direct vs indirect)
2. Business hierarchy and respect
3. Time and punctuality expectations
4. Gift-giving customs
5. Dining and entertainment etiquette
6. Negotiation style
7. Common greetings and phrases
8. Taboos and things to avoid
9. Preferred communication channels
10. Business card etiquette

Return as JSON:
{
    "communication_style": "description",
    "hierarchy_respect": "guidelines",
    "time_expectations": "punctuality norms",
    "gift_customs": "gift-giving guidelines",
    "dining_etiquette": "business dining norms",
    "negotiation_style": "negotiation approach",
    "greetings": ["common greeting phrases"],
    "taboos": ["things to avoid"],
    "preferred_channels": ["communication preferences"],
    "business_card_etiquette": "business card guidelines",
    "key_phrases": {
        "hello": "local greeting",
        "thank_you": "local thank you",
        "please": "local please",
        "excuse_me": "local excuse me"
    },
    "tips": ["practical business tips"]
}`, country, businessContext, communicationType)
}

func businessEtiquettePrompt(country, situation string) string {
	return fmt.Sprintf(`Provide specific business etiquette guidelines for %s in %s.

Include:
1. Appropriate dress code
2. Meeting preparation
3. Greeting protocols
4. Conversation topics (appropriate and inappropriate)
5. Body language considerations
6. Gift-giving if applicable
7. Follow-up expectations
8. Common mistakes to avoid

Return as JSON:
{
    "dress_code": "appropriate attire",
    "preparation": ["preparation steps"],
    "greeting_protocol": "how to greet properly",
    "appropriate_topics": ["good conversation topics"],
    "topics_to_avoid": ["topics to avoid"],
    "body_language": ["body language tips"],
    "gift_giving": "gift guidelines if applicable",
    "follow_up": "follow-up expectations",
    "common_mistakes": ["mistakes to avoid"],
    "success_tips": ["tips for success"]
}`, situation, country)
}

func userAnalyticsPrompt(timePeriod string) string {
	return fmt.Sprintf(`Generate business performance analytics for a user in an export business platform.

Time period: %s

Create realistic analytics including:
1. Profile completion score
2. Product listing performance
3. Message response rate
4. Market research activity
5. Business connections made
6. Engagement metrics
7. Areas for improvement
8. Success indicators

Return as JSON:
{
    "performance_score": 85,
    "profile_completion": 90,
    "product_views": 1250,
    "message_response_rate": 85,
    "connections_made": 15,
    "market_research_requests": 5,
    "engagement_score": 78,
    "strengths": ["strength1", "strength2"],
    "improvement_areas": ["area1", "area2"],
    "recommendations": ["recommendation1", "recommendation2"],
    "trends": {
        "views_trend": "increasing",
        "connections_trend": "stable",
        "response_rate_trend": "improving"
    },
    "benchmarks": {
        "industry_average_views": 800,
        "industry_average_response_rate": 75,
        "industry_average_connections": 10
    }
}`, timePeriod)
}

func productInsightsPrompt(productName, productCategory string) string {
	return fmt.Sprintf(`Analyze the market performance and potential for %s in the %s category.

Provide insights on:
1. Market demand level
2. Competition intensity
3. Price positioning
4. Target market suitability
5. Seasonal trends
6. Growth potential
7. Optimization recommendations

Return as JSON:
{
    "demand_level": "high/medium/low",
    "competition_intensity": "high/medium/low",
    "price_competitiveness": "competitive/above_market/below_market",
    "target_markets": ["market1", "market2"],
    "seasonal_trends": "description of seasonal patterns",
    "growth_potential": "high/medium/low",
    "performance_score": 85,
    "optimization_tips": ["tip1", "tip2"],
    "market_opportunities": ["opportunity1", "opportunity2"],
    "risk_factors": ["risk1", "risk2"]
}`, productName, productCategory)
}

func marketRecommendationsPrompt(userCountry, userIndustry string) string {
	return fmt.Sprintf(`Generate personalized market expansion recommendations for a business from %s in the %s industry.

Consider:
1. Geographic expansion opportunities
2. Product diversification suggestions
3. Partnership opportunities
4. Digital marketing strategies
5. Trade show participation
6. Certification requirements
7. Funding opportunities
8. Risk mitigation strategies

Return as JSON:
{
    "priority_markets": [
        {
            "country": "country name",
            "opportunity_score": 85,
            "entry_difficulty": "easy/medium/hard",
            "potential_revenue": "revenue estimate",
            "key_requirements": ["requirement1", "requirement2"],
            "timeline": "estimated timeline"
        }
    ],
    "product_opportunities": [
        {
            "product_type": "product category",
            "market_demand": "high/medium/low",
            "competition_level": "low/medium/high",
            "investment_required": "amount estimate"
        }
    ],
    "strategic_recommendations": [
        {
            "category": "marketing/partnerships/certification/funding",
            "recommendation": "specific recommendation",
            "priority": "high/medium/low",
            "expected_impact": "impact description",
            "implementation_steps": ["step1", "step2"]
        }
    ],
    "risk_factors": ["risk1", "risk2"],
    "success_metrics": ["metric1", "metric2"]
}`, userCountry, userIndustry)
}

func competitiveAnalysisPrompt(industry, targetMarket string) string {
	return fmt.Sprintf(`Analyze the competitive landscape for the %s industry in %s.

Include:
1. Key competitors and market share
2. Competitive advantages and weaknesses
3. Pricing strategies
4. Distribution channels
5. Marketing approaches
6. Innovation trends
7. Market gaps and opportunities
8. Competitive threats

Return as JSON:
{
    "market_leaders": [
        {
            "company": "company name",
            "market_share": "percentage",
            "strengths": ["strength1", "strength2"],
            "weaknesses": ["weakness1", "weakness2"]
        }
    ],
    "market_dynamics": {
        "competition_intensity": "high/medium/low",
        "price_competition": "high/medium/low",
        "innovation_rate": "high/medium/low",
        "market_growth": "growing/stable/declining"
    },
    "opportunities": [
        {
            "opportunity": "market gap description",
            "potential": "high/medium/low",
            "requirements": ["requirement1", "requirement2"]
        }
    ],
    "threats": ["threat1", "threat2"],
    "success_factors": ["factor1", "factor2"],
    "recommendations": ["recommendation1", "recommendation2"]
}`, industry, targetMarket)
}

func growthOpportunitiesPrompt(currentMarkets []string, productCount int) string {
	markets := "None specified"
	if len(currentMarkets) > 0 {
		markets = strings.Join(currentMarkets, ", ")
	}
	return fmt.Sprintf(`Identify growth opportunities for a business with the following profile:

Current markets: %s
Products: %d products in portfolio

Analyze opportunities in:
1. Market expansion (new geographic markets)
2. Product line extension
3. Value chain integration
4. Digital transformation
5. Strategic partnerships
6. Technology adoption
7. Sustainability initiatives
8. Customer segment expansion

Return as JSON:
{
    "growth_opportunities": [
        {
            "type": "market_expansion/product_extension/partnership/digital/sustainability",
            "title": "opportunity title",
            "description": "detailed description",
            "potential_impact": "high/medium/low",
            "investment_required": "low/medium/high",
            "timeline": "short/medium/long term",
            "success_probability": 85,
            "key_steps": ["step1", "step2"],
            "risks": ["risk1", "risk2"],
            "expected_roi": "roi estimate"
        }
    ],
    "priority_ranking": [1, 2, 3],
    "resource_requirements": {
        "financial": "investment estimate",
        "human": "staffing needs",
        "technology": "tech requirements",
        "time": "timeline estimate"
    },
    "success_metrics": ["metric1", "metric2"]
}`, markets, productCount)
}
