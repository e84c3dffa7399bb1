package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/globaltrade/platform/internal/config"
	"github.com/globaltrade/platform/pkg/agent"
	"github.com/globaltrade/platform/pkg/agents"
	"github.com/globaltrade/platform/pkg/db"
	"github.com/globaltrade/platform/pkg/events"
)

const apiLogPrefix = "server:routes"

// Store is the persistence surface the HTTP handlers need. *db.Repository
// satisfies it; tests substitute a stub.
type Store interface {
	Ping(ctx context.Context) error

	GetUser(ctx context.Context, id int64) (*db.User, error)
	CreateUser(ctx context.Context, params db.CreateUserParams) (*db.User, error)
	ListUsers(ctx context.Context, params db.ListUsersParams) ([]db.User, int, error)
	DeactivateUser(ctx context.Context, id int64) error

	CreateCompany(ctx context.Context, params db.CreateCompanyParams) (*db.Company, error)
	GetCompany(ctx context.Context, id int64) (*db.Company, error)
	ListCompanies(ctx context.Context, params db.ListCompaniesParams) ([]db.Company, int, error)
	UpdateCompany(ctx context.Context, id int64, params db.UpdateCompanyParams) (*db.Company, error)
	DeactivateCompany(ctx context.Context, id int64) error

	CreateProduct(ctx context.Context, params db.CreateProductParams) (*db.Product, error)
	GetProduct(ctx context.Context, id int64) (*db.Product, error)
	ListProducts(ctx context.Context, params db.ListProductsParams) ([]db.Product, int, error)
	DeactivateProduct(ctx context.Context, id int64) error

	ListConversations(ctx context.Context, userID int64) ([]db.ConversationSummary, error)
	ListMessages(ctx context.Context, conversationID string, page, perPage int) ([]db.Message, int, error)
	MarkConversationRead(ctx context.Context, conversationID string, receiverID int64) (int64, error)
	UserInConversation(ctx context.Context, conversationID string, userID int64) (bool, error)

	CreateResearch(ctx context.Context, userID int64, productName, targetCountry string) (*db.MarketResearch, error)
	CompleteResearch(ctx context.Context, id int64, results []byte, status string) error
	GetResearch(ctx context.Context, id int64) (*db.MarketResearch, error)
}

// AgentService is the agent surface the HTTP handlers need. *agents.Manager
// satisfies it.
type AgentService interface {
	Status() *agent.SystemStatus
	AnalyzeMarket(ctx context.Context, productName, targetCountry, productCategory string) *agent.Response
	DiscoverContacts(ctx context.Context, country, industry, companySize, contactType string) *agent.Response
	AnalyzeTrends(ctx context.Context, country, industry, timeframe string) *agent.Response
	MatchOpportunities(ctx context.Context, products []map[string]any, targetCountries []string) *agent.Response
	Translate(ctx context.Context, text, targetLanguage, sourceLanguage, translationContext string) *agent.Response
	BatchTranslate(ctx context.Context, texts []string, targetLanguage, sourceLanguage string) *agent.Response
	CulturalContext(ctx context.Context, country, businessContext, communicationType string) *agent.Response
	BusinessEtiquette(ctx context.Context, country, situation string) *agent.Response
	DetectLanguage(ctx context.Context, text string) *agent.Response
	AnalyzeUserPerformance(ctx context.Context, userID int64, timePeriod string) *agent.Response
	AnalyzeProducts(ctx context.Context, products []map[string]any) *agent.Response
	MarketRecommendations(ctx context.Context, userProfile map[string]any, industry string) *agent.Response
	AnalyzeCompetition(ctx context.Context, industry, targetMarket string) *agent.Response
	GrowthOpportunities(ctx context.Context, userData map[string]any) *agent.Response
	ComprehensiveResearch(ctx context.Context, researchData map[string]any) *agents.ComprehensiveResult
}

// API bundles the HTTP handlers and their dependencies.
type API struct {
	cfg       *config.Config
	store     Store
	agents    AgentService
	publisher events.EventPublisher
	wsHandler http.HandlerFunc
}

// NewAPI creates the HTTP API. wsHandler may be nil when the WebSocket
// layer is disabled (some tests).
func NewAPI(cfg *config.Config, store Store, agentSvc AgentService, publisher events.EventPublisher, wsHandler http.HandlerFunc) *API {
	if publisher == nil {
		publisher = &events.NoOpPublisher{}
	}
	return &API{cfg: cfg, store: store, agents: agentSvc, publisher: publisher, wsHandler: wsHandler}
}

// Routes builds the HTTP mux.
func (a *API) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", a.handleHealth)
	mux.HandleFunc("GET /ready", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	mux.HandleFunc("GET /api/users", a.handleListUsers)
	mux.HandleFunc("POST /api/users", a.handleCreateUser)
	mux.HandleFunc("GET /api/users/{id}", a.handleGetUser)
	mux.HandleFunc("DELETE /api/users/{id}", a.handleDeleteUser)

	mux.HandleFunc("GET /api/companies", a.handleListCompanies)
	mux.HandleFunc("POST /api/companies", a.handleCreateCompany)
	mux.HandleFunc("GET /api/companies/{id}", a.handleGetCompany)
	mux.HandleFunc("PUT /api/companies/{id}", a.handleUpdateCompany)
	mux.HandleFunc("DELETE /api/companies/{id}", a.handleDeleteCompany)

	mux.HandleFunc("GET /api/products", a.handleListProducts)
	mux.HandleFunc("POST /api/products", a.handleCreateProduct)
	mux.HandleFunc("GET /api/products/{id}", a.handleGetProduct)
	mux.HandleFunc("DELETE /api/products/{id}", a.handleDeleteProduct)

	mux.HandleFunc("GET /api/chat/conversations", a.handleListConversations)
	mux.HandleFunc("GET /api/chat/conversations/{id}/messages", a.handleListMessages)
	mux.HandleFunc("POST /api/chat/conversations/{id}/read", a.handleMarkRead)

	mux.HandleFunc("GET /api/agents/status", a.handleAgentStatus)
	mux.HandleFunc("POST /api/agents/market-analysis", a.handleMarketAnalysis)
	mux.HandleFunc("POST /api/agents/contacts", a.handleContacts)
	mux.HandleFunc("POST /api/agents/trends", a.handleTrends)
	mux.HandleFunc("POST /api/agents/opportunities", a.handleOpportunities)
	mux.HandleFunc("POST /api/agents/translate", a.handleTranslate)
	mux.HandleFunc("POST /api/agents/translate/batch", a.handleBatchTranslate)
	mux.HandleFunc("POST /api/agents/cultural-context", a.handleCulturalContext)
	mux.HandleFunc("POST /api/agents/business-etiquette", a.handleBusinessEtiquette)
	mux.HandleFunc("POST /api/agents/detect-language", a.handleDetectLanguage)
	mux.HandleFunc("POST /api/agents/analytics/user", a.handleUserAnalytics)
	mux.HandleFunc("POST /api/agents/analytics/products", a.handleProductInsights)
	mux.HandleFunc("POST /api/agents/analytics/recommendations", a.handleMarketRecommendations)
	mux.HandleFunc("POST /api/agents/analytics/competition", a.handleCompetition)
	mux.HandleFunc("POST /api/agents/analytics/growth", a.handleGrowth)
	mux.HandleFunc("POST /api/agents/research/comprehensive", a.handleComprehensiveResearch)
	mux.HandleFunc("GET /api/agents/research/{id}", a.handleGetResearch)

	mux.HandleFunc("POST /api/media/upload", a.handleMediaUpload)
	mux.HandleFunc("GET /uploads/{file}", a.handleServeUpload)

	if a.wsHandler != nil {
		mux.HandleFunc("GET /ws", a.wsHandler)
	}
	return mux
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	dbOK := a.store.Ping(ctx) == nil
	status := "healthy"
	code := http.StatusOK
	if !dbOK {
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]any{
		"status":    status,
		"checks":    map[string]bool{"database": dbOK},
		"agents":    a.agents.Status(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ---------------------------------------------------------------------------
// Users

func (a *API) handleListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	users, total, err := a.store.ListUsers(r.Context(), db.ListUsersParams{
		Country: q.Get("country"),
		Search:  q.Get("search"),
		Page:    queryInt(q.Get("page")),
		PerPage: queryInt(q.Get("per_page")),
	})
	if err != nil {
		a.serverError(w, "list users", err)
		return
	}
	if users == nil {
		users = []db.User{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users, "total": total})
}

type createUserRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Country   string `json:"country"`
	Language  string `json:"language"`
}

func (a *API) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := readJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if req.Email == "" || req.FirstName == "" || req.LastName == "" {
		badRequest(w, "email, first_name, and last_name are required")
		return
	}
	user, err := a.store.CreateUser(r.Context(), db.CreateUserParams{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Country:   req.Country,
		Language:  req.Language,
	})
	if err != nil {
		a.serverError(w, "create user", err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (a *API) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	user, err := a.store.GetUser(r.Context(), id)
	if err != nil {
		a.serverError(w, "get user", err)
		return
	}
	if user == nil {
		notFound(w, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (a *API) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := a.store.DeactivateUser(r.Context(), id); err != nil {
		if err == db.ErrNotFound {
			notFound(w, "user not found")
			return
		}
		a.serverError(w, "delete user", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// ---------------------------------------------------------------------------
// Companies

func (a *API) handleListCompanies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	companies, total, err := a.store.ListCompanies(r.Context(), db.ListCompaniesParams{
		Country:  q.Get("country"),
		Industry: q.Get("industry"),
		Page:     queryInt(q.Get("page")),
		PerPage:  queryInt(q.Get("per_page")),
	})
	if err != nil {
		a.serverError(w, "list companies", err)
		return
	}
	if companies == nil {
		companies = []db.Company{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"companies": companies, "total": total})
}

type createCompanyRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Country     string  `json:"country"`
	Industry    string  `json:"industry"`
	Website     *string `json:"website"`
}

func (a *API) handleCreateCompany(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		unauthorized(w, err.Error())
		return
	}
	var req createCompanyRequest
	if err := readJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if req.Name == "" {
		badRequest(w, "name is required")
		return
	}
	company, err := a.store.CreateCompany(r.Context(), db.CreateCompanyParams{
		OwnerID:     userID,
		Name:        req.Name,
		Description: req.Description,
		Country:     req.Country,
		Industry:    req.Industry,
		Website:     req.Website,
	})
	if err != nil {
		a.serverError(w, "create company", err)
		return
	}
	writeJSON(w, http.StatusCreated, company)
}

func (a *API) handleGetCompany(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	company, err := a.store.GetCompany(r.Context(), id)
	if err != nil {
		a.serverError(w, "get company", err)
		return
	}
	if company == nil {
		notFound(w, "company not found")
		return
	}
	writeJSON(w, http.StatusOK, company)
}

type updateCompanyRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Country     *string `json:"country"`
	Industry    *string `json:"industry"`
	Website     *string `json:"website"`
}

func (a *API) handleUpdateCompany(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		unauthorized(w, err.Error())
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	existing, err := a.store.GetCompany(r.Context(), id)
	if err != nil {
		a.serverError(w, "get company", err)
		return
	}
	if existing == nil {
		notFound(w, "company not found")
		return
	}
	if existing.OwnerID != userID {
		forbidden(w, "not the company owner")
		return
	}

	var req updateCompanyRequest
	if err := readJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	company, err := a.store.UpdateCompany(r.Context(), id, db.UpdateCompanyParams{
		Name:        req.Name,
		Description: req.Description,
		Country:     req.Country,
		Industry:    req.Industry,
		Website:     req.Website,
	})
	if err != nil {
		a.serverError(w, "update company", err)
		return
	}
	if company == nil {
		notFound(w, "company not found")
		return
	}
	writeJSON(w, http.StatusOK, company)
}

func (a *API) handleDeleteCompany(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		unauthorized(w, err.Error())
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	existing, err := a.store.GetCompany(r.Context(), id)
	if err != nil {
		a.serverError(w, "get company", err)
		return
	}
	if existing == nil {
		notFound(w, "company not found")
		return
	}
	if existing.OwnerID != userID {
		forbidden(w, "not the company owner")
		return
	}
	if err := a.store.DeactivateCompany(r.Context(), id); err != nil {
		a.serverError(w, "delete company", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// ---------------------------------------------------------------------------
// Products

func (a *API) handleListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	companyID, _ := strconv.ParseInt(q.Get("company_id"), 10, 64)
	products, total, err := a.store.ListProducts(r.Context(), db.ListProductsParams{
		CompanyID: companyID,
		Category:  q.Get("category"),
		Search:    q.Get("search"),
		Page:      queryInt(q.Get("page")),
		PerPage:   queryInt(q.Get("per_page")),
	})
	if err != nil {
		a.serverError(w, "list products", err)
		return
	}
	if products == nil {
		products = []db.Product{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": products, "total": total})
}

type createProductRequest struct {
	CompanyID   int64    `json:"company_id"`
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Category    string   `json:"category"`
	PriceMin    *float64 `json:"price_min"`
	PriceMax    *float64 `json:"price_max"`
	Currency    string   `json:"currency"`
	MediaURL    *string  `json:"media_url"`
}

func (a *API) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		unauthorized(w, err.Error())
		return
	}
	var req createProductRequest
	if err := readJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if req.CompanyID <= 0 || req.Name == "" {
		badRequest(w, "company_id and name are required")
		return
	}
	company, err := a.store.GetCompany(r.Context(), req.CompanyID)
	if err != nil {
		a.serverError(w, "get company", err)
		return
	}
	if company == nil {
		notFound(w, "company not found")
		return
	}
	if company.OwnerID != userID {
		forbidden(w, "not the company owner")
		return
	}
	product, err := a.store.CreateProduct(r.Context(), db.CreateProductParams{
		CompanyID:   req.CompanyID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		PriceMin:    req.PriceMin,
		PriceMax:    req.PriceMax,
		Currency:    req.Currency,
		MediaURL:    req.MediaURL,
	})
	if err != nil {
		a.serverError(w, "create product", err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func (a *API) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	product, err := a.store.GetProduct(r.Context(), id)
	if err != nil {
		a.serverError(w, "get product", err)
		return
	}
	if product == nil {
		notFound(w, "product not found")
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (a *API) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		unauthorized(w, err.Error())
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	product, err := a.store.GetProduct(r.Context(), id)
	if err != nil {
		a.serverError(w, "get product", err)
		return
	}
	if product == nil {
		notFound(w, "product not found")
		return
	}
	company, err := a.store.GetCompany(r.Context(), product.CompanyID)
	if err != nil {
		a.serverError(w, "get company", err)
		return
	}
	if company == nil || company.OwnerID != userID {
		forbidden(w, "not the company owner")
		return
	}
	if err := a.store.DeactivateProduct(r.Context(), id); err != nil {
		a.serverError(w, "delete product", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// ---------------------------------------------------------------------------
// Chat

func (a *API) handleListConversations(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		unauthorized(w, err.Error())
		return
	}
	conversations, err := a.store.ListConversations(r.Context(), userID)
	if err != nil {
		a.serverError(w, "list conversations", err)
		return
	}
	if conversations == nil {
		conversations = []db.ConversationSummary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"conversations": conversations})
}

func (a *API) handleListMessages(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		unauthorized(w, err.Error())
		return
	}
	conversationID := r.PathValue("id")
	member, err := a.store.UserInConversation(r.Context(), conversationID, userID)
	if err != nil {
		a.serverError(w, "check conversation", err)
		return
	}
	if !member {
		forbidden(w, "not a conversation participant")
		return
	}

	q := r.URL.Query()
	messages, total, err := a.store.ListMessages(r.Context(), conversationID, queryInt(q.Get("page")), queryInt(q.Get("per_page")))
	if err != nil {
		a.serverError(w, "list messages", err)
		return
	}
	if messages == nil {
		messages = []db.Message{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"conversation_id": conversationID,
		"messages":        messages,
		"total":           total,
	})
}

func (a *API) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		unauthorized(w, err.Error())
		return
	}
	conversationID := r.PathValue("id")
	updated, err := a.store.MarkConversationRead(r.Context(), conversationID, userID)
	if err != nil {
		a.serverError(w, "mark read", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"marked_read": updated})
}

// ---------------------------------------------------------------------------
// Agents

func (a *API) handleAgentStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.agents.Status())
}

func (a *API) handleMarketAnalysis(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductName     string `json:"product_name"`
		TargetCountry   string `json:"target_country"`
		ProductCategory string `json:"product_category"`
	}
	if err := readJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	writeAgentResponse(w, a.agents.AnalyzeMarket(r.Context(), req.ProductName, req.TargetCountry, req.ProductCategory))
}

func (a *API) handleContacts(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Country     string `json:"country"`
		Industry    string `json:"industry"`
		CompanySize string `json:"company_size"`
		ContactType string `json:"contact_type"`
	}
	if err := readJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	writeAgentResponse(w, a.agents.DiscoverContacts(r.Context(), req.Country, req.Industry, req.CompanySize, req.ContactType))
}

func (a *API) handleTrends(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Country   string `json:"country"`
		Industry  string `json:"industry"`
		Timeframe string `json:"timeframe"`
	}
	if err := readJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	writeAgentResponse(w, a.agents.AnalyzeTrends(r.Context(), req.Country, req.Industry, req.Timeframe))
}

func (a *API) handleOpportunities(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Products        []map[string]any `json:"products"`
		TargetCountries []string         `json:"target_countries"`
	}
	if err := readJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	writeAgentResponse(w, a.agents.MatchOpportunities(r.Context(), req.Products, req.TargetCountries))
}

func (a *API) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text           string `json:"text"`
		TargetLanguage string `json:"target_language"`
		SourceLanguage string `json:"source_language"`
		Context        string `json:"context"`
	}
	if err := readJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	writeAgentResponse(w, a.agents.Translate(r.Context(), req.Text, req.TargetLanguage, req.SourceLanguage, req.Context))
}

func (a *API) handleBatchTranslate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Texts          []string `json:"texts"`
		TargetLanguage string   `json:"target_language"`
		SourceLanguage string   `json:"source_language"`
	}
	if err := readJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	writeAgentResponse(w, a.agents.BatchTranslate(r.Context(), req.Texts, req.TargetLanguage, req.SourceLanguage))
}

func (a *API) handleCulturalContext(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Country           string `json:"country"`
		BusinessContext   string `json:"business_context"`
		CommunicationType string `json:"communication_type"`
	}
	if err := readJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	writeAgentResponse(w, a.agents.CulturalContext(r.Context(), req.Country, req.BusinessContext, req.CommunicationType))
}

func (a *API) handleBusinessEtiquette(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Country   string `json:"country"`
		Situation string `json:"situation"`
	}
	if err := readJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	writeAgentResponse(w, a.agents.BusinessEtiquette(r.Context(), req.Country, req.Situation))
}

func (a *API) handleDetectLanguage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := readJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	writeAgentResponse(w, a.agents.DetectLanguage(r.Context(), req.Text))
}

func (a *API) handleUserAnalytics(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		unauthorized(w, err.Error())
		return
	}
	var req struct {
		TimePeriod string `json:"time_period"`
	}
	if err := readJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	writeAgentResponse(w, a.agents.AnalyzeUserPerformance(r.Context(), userID, req.TimePeriod))
}

func (a *API) handleProductInsights(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Products []map[string]any `json:"products"`
	}
	if err := readJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	writeAgentResponse(w, a.agents.AnalyzeProducts(r.Context(), req.Products))
}

func (a *API) handleMarketRecommendations(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserProfile map[string]any `json:"user_profile"`
		Industry    string         `json:"industry"`
	}
	if err := readJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	writeAgentResponse(w, a.agents.MarketRecommendations(r.Context(), req.UserProfile, req.Industry))
}

func (a *API) handleCompetition(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Industry     string `json:"industry"`
		TargetMarket string `json:"target_market"`
	}
	if err := readJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	writeAgentResponse(w, a.agents.AnalyzeCompetition(r.Context(), req.Industry, req.TargetMarket))
}

func (a *API) handleGrowth(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserData map[string]any `json:"user_data"`
	}
	if err := readJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	writeAgentResponse(w, a.agents.GrowthOpportunities(r.Context(), req.UserData))
}

func (a *API) handleComprehensiveResearch(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		unauthorized(w, err.Error())
		return
	}
	var req struct {
		ProductName     string `json:"product_name"`
		TargetCountry   string `json:"target_country"`
		ProductCategory string `json:"product_category"`
	}
	if err := readJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if req.ProductName == "" || req.TargetCountry == "" {
		badRequest(w, "product_name and target_country are required")
		return
	}

	record, err := a.store.CreateResearch(r.Context(), userID, req.ProductName, req.TargetCountry)
	if err != nil {
		a.serverError(w, "create research", err)
		return
	}

	result := a.agents.ComprehensiveResearch(r.Context(), map[string]any{
		"research_id":      record.ID,
		"product_name":     req.ProductName,
		"target_country":   req.TargetCountry,
		"product_category": req.ProductCategory,
	})

	status := "completed"
	if len(result.Errors) > 0 {
		status = "completed_with_errors"
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		a.serverError(w, "encode research result", err)
		return
	}
	if err := a.store.CompleteResearch(r.Context(), record.ID, resultJSON, status); err != nil {
		slog.Warn(fmt.Sprintf("%s - persist research result failed: %v", apiLogPrefix, err))
	}

	event := &events.ResearchCompletedEvent{
		ResearchID:    record.ID,
		UserID:        userID,
		ProductName:   req.ProductName,
		TargetCountry: req.TargetCountry,
		Status:        status,
		Errors:        result.Errors,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	}
	if err := a.publisher.PublishResearchCompleted(r.Context(), event); err != nil {
		slog.Warn(fmt.Sprintf("%s - publish research event failed: %v", apiLogPrefix, err))
	}

	writeJSON(w, http.StatusOK, result)
}

func (a *API) handleGetResearch(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		unauthorized(w, err.Error())
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	record, err := a.store.GetResearch(r.Context(), id)
	if err != nil {
		a.serverError(w, "get research", err)
		return
	}
	if record == nil || record.UserID != userID {
		notFound(w, "research not found")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// ---------------------------------------------------------------------------
// Media

var allowedUploadExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
	".pdf": true, ".mp4": true, ".webm": true, ".mp3": true, ".wav": true, ".ogg": true,
}

func (a *API) handleMediaUpload(w http.ResponseWriter, r *http.Request) {
	if _, err := callerID(r); err != nil {
		unauthorized(w, err.Error())
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, a.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(a.cfg.MaxUploadBytes); err != nil {
		badRequest(w, "file too large or malformed upload")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		badRequest(w, "file field is required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedUploadExts[ext] {
		badRequest(w, fmt.Sprintf("file type %s is not allowed", ext))
		return
	}

	if err := os.MkdirAll(a.cfg.UploadDir, 0o755); err != nil {
		a.serverError(w, "create upload dir", err)
		return
	}
	// Server-generated name; the client filename is never used on disk.
	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(a.cfg.UploadDir, name))
	if err != nil {
		a.serverError(w, "create upload file", err)
		return
	}
	defer dst.Close()

	size, err := io.Copy(dst, file)
	if err != nil {
		a.serverError(w, "write upload file", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"url":      "/uploads/" + name,
		"filename": name,
		"size":     size,
	})
}

func (a *API) handleServeUpload(w http.ResponseWriter, r *http.Request) {
	name := filepath.Base(r.PathValue("file"))
	if name == "." || name == "/" {
		notFound(w, "file not found")
		return
	}
	http.ServeFile(w, r, filepath.Join(a.cfg.UploadDir, name))
}

// ---------------------------------------------------------------------------
// Helpers

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error(fmt.Sprintf("%s - response encode: %v", apiLogPrefix, err))
	}
}

func writeAgentResponse(w http.ResponseWriter, resp *agent.Response) {
	status := http.StatusOK
	if !resp.Success {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, resp)
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": message})
}

func unauthorized(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnauthorized, map[string]string{"error": message})
}

func forbidden(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusForbidden, map[string]string{"error": message})
}

func notFound(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": message})
}

func (a *API) serverError(w http.ResponseWriter, op string, err error) {
	slog.Error(fmt.Sprintf("%s - %s: %v", apiLogPrefix, op, err))
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

// callerID extracts the calling user's ID from the X-User-ID header.
func callerID(r *http.Request) (int64, error) {
	raw := r.Header.Get("X-User-ID")
	if raw == "" {
		return 0, fmt.Errorf("missing X-User-ID header")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid X-User-ID header")
	}
	return id, nil
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(w, "invalid id")
		return 0, false
	}
	return id, true
}

func queryInt(raw string) int {
	n, _ := strconv.Atoi(raw)
	return n
}
