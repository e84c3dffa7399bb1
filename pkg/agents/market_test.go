package agents

import (
	"context"
	"testing"

	"github.com/globaltrade/platform/pkg/agent"
)

func TestAnalyzeMarket_StructuredReply(t *testing.T) {
	stub := &stubCompleter{reply: fixedReply(`{"market_size": {"value": "2.5B", "currency": "USD", "year": "2024"}, "growth_rate": "4%"}`)}
	a := NewMarketResearchAgent(stub)

	resp := a.Process(context.Background(), agent.Request{
		"type":           TypeMarketAnalysis,
		"product_name":   "Arabica Coffee",
		"target_country": "Germany",
	})
	if !resp.Success {
		t.Fatalf("agents:market_test - unexpected error: %s", resp.Error)
	}
	analysis, ok := resp.Data["market_analysis"].(map[string]any)
	if !ok {
		t.Fatalf("agents:market_test - market_analysis type %T", resp.Data["market_analysis"])
	}
	if analysis["growth_rate"] != "4%" {
		t.Errorf("agents:market_test - growth_rate = %v", analysis["growth_rate"])
	}
	if resp.Data["product"] != "Arabica Coffee" {
		t.Errorf("agents:market_test - product = %v", resp.Data["product"])
	}
	if resp.Data["target_country"] != "Germany" {
		t.Errorf("agents:market_test - target_country = %v", resp.Data["target_country"])
	}
}

func TestAnalyzeMarket_FreeTextFallback(t *testing.T) {
	stub := &stubCompleter{reply: fixedReply("The German coffee market is large and growing.")}
	a := NewMarketResearchAgent(stub)

	resp := a.Process(context.Background(), agent.Request{
		"type":           TypeMarketAnalysis,
		"product_name":   "Arabica Coffee",
		"target_country": "Germany",
	})
	if !resp.Success {
		t.Fatalf("agents:market_test - unexpected error: %s", resp.Error)
	}
	analysis := resp.Data["market_analysis"].(map[string]any)
	if analysis["analysis_text"] != "The German coffee market is large and growing." {
		t.Errorf("agents:market_test - analysis_text = %v", analysis["analysis_text"])
	}
	if analysis["growth_rate"] != "To be determined" {
		t.Errorf("agents:market_test - growth_rate = %v", analysis["growth_rate"])
	}
	size := analysis["market_size"].(map[string]any)
	if size["value"] != "Data not available" {
		t.Errorf("agents:market_test - market_size.value = %v", size["value"])
	}
}

func TestAnalyzeMarket_MissingFields(t *testing.T) {
	stub := &stubCompleter{reply: fixedReply("never used")}
	a := NewMarketResearchAgent(stub)

	resp := a.Process(context.Background(), agent.Request{
		"type":         TypeMarketAnalysis,
		"product_name": "Coffee",
	})
	if resp.Success {
		t.Fatal("agents:market_test - expected error envelope")
	}
	if resp.Error != "Missing required fields for market analysis" {
		t.Errorf("agents:market_test - Error = %q", resp.Error)
	}
	if stub.callCount() != 0 {
		t.Errorf("agents:market_test - expected no upstream call, got %d", stub.callCount())
	}
}

func TestAnalyzeMarket_UpstreamFailure(t *testing.T) {
	a := NewMarketResearchAgent(&stubCompleter{reply: failingReply("rate limited")})

	resp := a.Process(context.Background(), agent.Request{
		"type":           TypeMarketAnalysis,
		"product_name":   "Coffee",
		"target_country": "Germany",
	})
	if resp.Success {
		t.Fatal("agents:market_test - expected error envelope")
	}
}

func TestDiscoverContacts_UpstreamFailureDegradesToSamples(t *testing.T) {
	a := NewMarketResearchAgent(&stubCompleter{reply: failingReply("unavailable")})

	resp := a.Process(context.Background(), agent.Request{
		"type":     TypeContactDiscovery,
		"country":  "Italy",
		"industry": "Coffee",
	})
	if !resp.Success {
		t.Fatalf("agents:market_test - expected degraded success, got error: %s", resp.Error)
	}
	if resp.Data["note"] != "Using sample data due to API limitations" {
		t.Errorf("agents:market_test - note = %v", resp.Data["note"])
	}
	contacts := resp.Data["contacts"].([]map[string]any)
	if len(contacts) != 2 {
		t.Fatalf("agents:market_test - len(contacts) = %d, want 2 curated Italian entries", len(contacts))
	}
	if contacts[0]["contact_person"] != "Marco Rossi" {
		t.Errorf("agents:market_test - contact_person = %v", contacts[0]["contact_person"])
	}
	if resp.Data["total_found"] != 2 {
		t.Errorf("agents:market_test - total_found = %v", resp.Data["total_found"])
	}
}

func TestDiscoverContacts_GenericFallback(t *testing.T) {
	a := NewMarketResearchAgent(&stubCompleter{reply: fixedReply("not a json array")})

	resp := a.Process(context.Background(), agent.Request{
		"type":     TypeContactDiscovery,
		"country":  "Brazil",
		"industry": "Textiles",
	})
	if !resp.Success {
		t.Fatalf("agents:market_test - unexpected error: %s", resp.Error)
	}
	contacts := resp.Data["contacts"].([]map[string]any)
	if len(contacts) != 1 {
		t.Fatalf("agents:market_test - len(contacts) = %d, want 1", len(contacts))
	}
	if contacts[0]["company_name"] != "Global Textiles Corp" {
		t.Errorf("agents:market_test - company_name = %v", contacts[0]["company_name"])
	}
	criteria := resp.Data["search_criteria"].(map[string]any)
	if criteria["contact_type"] != "buyer" {
		t.Errorf("agents:market_test - contact_type default = %v", criteria["contact_type"])
	}
}

func TestDiscoverContacts_StructuredReply(t *testing.T) {
	a := NewMarketResearchAgent(&stubCompleter{reply: fixedReply(`[{"company_name":"Real Importers"},{"company_name":"Second Co"}]`)})

	resp := a.Process(context.Background(), agent.Request{
		"type":         TypeContactDiscovery,
		"country":      "France",
		"industry":     "Wine",
		"contact_type": "distributor",
	})
	if !resp.Success {
		t.Fatalf("agents:market_test - unexpected error: %s", resp.Error)
	}
	contacts := resp.Data["contacts"].([]map[string]any)
	if len(contacts) != 2 || contacts[0]["company_name"] != "Real Importers" {
		t.Errorf("agents:market_test - contacts = %v", contacts)
	}
}

func TestAnalyzeTrends_FreeTextFallback(t *testing.T) {
	a := NewMarketResearchAgent(&stubCompleter{reply: fixedReply("Demand keeps shifting to premium segments.")})

	resp := a.Process(context.Background(), agent.Request{
		"type":    TypeTrendAnalysis,
		"country": "Japan",
	})
	if !resp.Success {
		t.Fatalf("agents:market_test - unexpected error: %s", resp.Error)
	}
	trends := resp.Data["trends_analysis"].(map[string]any)
	if trends["market_outlook"] != "neutral" {
		t.Errorf("agents:market_test - market_outlook = %v", trends["market_outlook"])
	}
	if resp.Data["industry"] != "General" {
		t.Errorf("agents:market_test - industry default = %v", resp.Data["industry"])
	}
	if resp.Data["timeframe"] != "2024-2025" {
		t.Errorf("agents:market_test - timeframe default = %v", resp.Data["timeframe"])
	}
}

func TestMatchOpportunities(t *testing.T) {
	t.Run("structured reply attaches product", func(t *testing.T) {
		a := NewMarketResearchAgent(&stubCompleter{reply: fixedReply(`[{"title":"Sell coffee in Berlin","confidence":90}]`)})

		resp := a.Process(context.Background(), agent.Request{
			"type": TypeOpportunityMatching,
			"products": []any{
				map[string]any{"name": "Coffee", "category": "Food"},
			},
			"target_countries": []any{"Germany"},
		})
		if !resp.Success {
			t.Fatalf("agents:market_test - unexpected error: %s", resp.Error)
		}
		opportunities := resp.Data["opportunities"].([]map[string]any)
		if len(opportunities) != 1 {
			t.Fatalf("agents:market_test - len(opportunities) = %d", len(opportunities))
		}
		matched := opportunities[0]["matched_product"].(map[string]any)
		if matched["name"] != "Coffee" {
			t.Errorf("agents:market_test - matched_product = %v", matched)
		}
		if resp.Data["products_analyzed"] != 1 {
			t.Errorf("agents:market_test - products_analyzed = %v", resp.Data["products_analyzed"])
		}
	})

	t.Run("free text falls back to fixed opportunity", func(t *testing.T) {
		a := NewMarketResearchAgent(&stubCompleter{reply: fixedReply("no json here")})

		resp := a.Process(context.Background(), agent.Request{
			"type": TypeOpportunityMatching,
			"products": []any{
				map[string]any{"name": "Olive Oil"},
			},
		})
		if !resp.Success {
			t.Fatalf("agents:market_test - unexpected error: %s", resp.Error)
		}
		opportunities := resp.Data["opportunities"].([]map[string]any)
		if len(opportunities) != 1 {
			t.Fatalf("agents:market_test - len(opportunities) = %d", len(opportunities))
		}
		opp := opportunities[0]
		if opp["title"] != "Export Opportunity for Olive Oil" {
			t.Errorf("agents:market_test - title = %v", opp["title"])
		}
		if opp["confidence"] != 70 {
			t.Errorf("agents:market_test - confidence = %v", opp["confidence"])
		}
	})

	t.Run("per-product failure skips product", func(t *testing.T) {
		a := NewMarketResearchAgent(&stubCompleter{reply: failingReply("down")})

		resp := a.Process(context.Background(), agent.Request{
			"type": TypeOpportunityMatching,
			"products": []any{
				map[string]any{"name": "Coffee"},
			},
		})
		if !resp.Success {
			t.Fatalf("agents:market_test - unexpected error: %s", resp.Error)
		}
		if resp.Data["total_found"] != 0 {
			t.Errorf("agents:market_test - total_found = %v, want 0", resp.Data["total_found"])
		}
	})
}

func TestMarketResearchAgent_UnknownType(t *testing.T) {
	a := NewMarketResearchAgent(&stubCompleter{reply: fixedReply("never used")})
	resp := a.Process(context.Background(), agent.Request{"type": "bogus"})
	if resp.Success {
		t.Fatal("agents:market_test - expected error envelope")
	}
	if resp.Error != "Unknown request type: bogus" {
		t.Errorf("agents:market_test - Error = %q", resp.Error)
	}
}
