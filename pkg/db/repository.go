package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const repoLogPrefix = "db:repository"

// Repository provides database access for platform operations. All reads
// filter on is_active; deletes flip the flag instead of removing rows.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a Repository with the given connection pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Ping verifies database connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// =========================================================================
// USER OPERATIONS
// =========================================================================

// GetUser finds an active user by ID. Returns nil when not found.
func (r *Repository) GetUser(ctx context.Context, id int64) (*User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, email, first_name, last_name, country, language, is_verified, is_active, created_at, updated_at
		 FROM users
		 WHERE id = $1 AND is_active = TRUE
		 LIMIT 1`, id)
	return scanUser(row)
}

// CreateUser inserts a user and returns the stored row.
func (r *Repository) CreateUser(ctx context.Context, params CreateUserParams) (*User, error) {
	slog.Info(fmt.Sprintf("%s - CreateUser email=%s", repoLogPrefix, params.Email))

	language := params.Language
	if language == "" {
		language = "en"
	}
	row := r.pool.QueryRow(ctx,
		`INSERT INTO users (email, first_name, last_name, country, language)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, email, first_name, last_name, country, language, is_verified, is_active, created_at, updated_at`,
		params.Email, params.FirstName, params.LastName, params.Country, language)
	return scanUser(row)
}

// CreateUserParams holds parameters for CreateUser.
type CreateUserParams struct {
	Email     string
	FirstName string
	LastName  string
	Country   string
	Language  string
}

// ListUsersParams holds filters for ListUsers.
type ListUsersParams struct {
	Country string
	Search  string
	Page    int
	PerPage int
}

// ListUsers lists active users with optional country/name filters. The
// second return value is the total match count for pagination.
func (r *Repository) ListUsers(ctx context.Context, params ListUsersParams) ([]User, int, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	perPage := params.PerPage
	if perPage < 1 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}
	offset := (page - 1) * perPage

	query := `SELECT id, email, first_name, last_name, country, language, is_verified, is_active, created_at, updated_at
	          FROM users WHERE is_active = TRUE`
	countQuery := `SELECT COUNT(*)::int FROM users WHERE is_active = TRUE`
	args := []any{}
	argIdx := 1

	if params.Country != "" {
		clause := fmt.Sprintf(` AND country ILIKE $%d`, argIdx)
		query += clause
		countQuery += clause
		args = append(args, "%"+params.Country+"%")
		argIdx++
	}
	if params.Search != "" {
		clause := fmt.Sprintf(` AND (first_name ILIKE $%d OR last_name ILIKE $%d)`, argIdx, argIdx)
		query += clause
		countQuery += clause
		args = append(args, "%"+params.Search+"%")
		argIdx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s - count users: %w", repoLogPrefix, err)
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, argIdx, argIdx+1)
	args = append(args, perPage, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s - list users: %w", repoLogPrefix, err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUserRows(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *u)
	}
	return users, total, rows.Err()
}

// DeactivateUser soft-deletes a user.
func (r *Repository) DeactivateUser(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET is_active = FALSE, updated_at = $2 WHERE id = $1 AND is_active = TRUE`,
		id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("%s - deactivate user: %w", repoLogPrefix, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// =========================================================================
// COMPANY OPERATIONS
// =========================================================================

// CreateCompanyParams holds parameters for CreateCompany.
type CreateCompanyParams struct {
	OwnerID     int64
	Name        string
	Description *string
	Country     string
	Industry    string
	Website     *string
}

// CreateCompany inserts a company and returns the stored row.
func (r *Repository) CreateCompany(ctx context.Context, params CreateCompanyParams) (*Company, error) {
	slog.Info(fmt.Sprintf("%s - CreateCompany name=%s owner=%d", repoLogPrefix, params.Name, params.OwnerID))

	row := r.pool.QueryRow(ctx,
		`INSERT INTO companies (owner_id, name, description, country, industry, website)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, owner_id, name, description, country, industry, website, is_verified, is_active, created_at, updated_at`,
		params.OwnerID, params.Name, params.Description, params.Country, params.Industry, params.Website)
	return scanCompany(row)
}

// GetCompany finds an active company by ID. Returns nil when not found.
func (r *Repository) GetCompany(ctx context.Context, id int64) (*Company, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, owner_id, name, description, country, industry, website, is_verified, is_active, created_at, updated_at
		 FROM companies
		 WHERE id = $1 AND is_active = TRUE
		 LIMIT 1`, id)
	return scanCompany(row)
}

// ListCompaniesParams holds filters for ListCompanies.
type ListCompaniesParams struct {
	Country  string
	Industry string
	Page     int
	PerPage  int
}

// ListCompanies lists active companies with optional filters.
func (r *Repository) ListCompanies(ctx context.Context, params ListCompaniesParams) ([]Company, int, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	perPage := params.PerPage
	if perPage < 1 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}
	offset := (page - 1) * perPage

	query := `SELECT id, owner_id, name, description, country, industry, website, is_verified, is_active, created_at, updated_at
	          FROM companies WHERE is_active = TRUE`
	countQuery := `SELECT COUNT(*)::int FROM companies WHERE is_active = TRUE`
	args := []any{}
	argIdx := 1

	if params.Country != "" {
		clause := fmt.Sprintf(` AND country ILIKE $%d`, argIdx)
		query += clause
		countQuery += clause
		args = append(args, "%"+params.Country+"%")
		argIdx++
	}
	if params.Industry != "" {
		clause := fmt.Sprintf(` AND industry ILIKE $%d`, argIdx)
		query += clause
		countQuery += clause
		args = append(args, "%"+params.Industry+"%")
		argIdx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s - count companies: %w", repoLogPrefix, err)
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, argIdx, argIdx+1)
	args = append(args, perPage, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s - list companies: %w", repoLogPrefix, err)
	}
	defer rows.Close()

	var companies []Company
	for rows.Next() {
		c, err := scanCompanyRows(rows)
		if err != nil {
			return nil, 0, err
		}
		companies = append(companies, *c)
	}
	return companies, total, rows.Err()
}

// UpdateCompanyParams holds optional fields for UpdateCompany; nil fields
// are left unchanged.
type UpdateCompanyParams struct {
	Name        *string
	Description *string
	Country     *string
	Industry    *string
	Website     *string
}

// UpdateCompany patches a company and returns the stored row.
func (r *Repository) UpdateCompany(ctx context.Context, id int64, params UpdateCompanyParams) (*Company, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE companies SET
		   name = COALESCE($2, name),
		   description = COALESCE($3, description),
		   country = COALESCE($4, country),
		   industry = COALESCE($5, industry),
		   website = COALESCE($6, website),
		   updated_at = $7
		 WHERE id = $1 AND is_active = TRUE
		 RETURNING id, owner_id, name, description, country, industry, website, is_verified, is_active, created_at, updated_at`,
		id, params.Name, params.Description, params.Country, params.Industry, params.Website, time.Now().UTC())
	return scanCompany(row)
}

// DeactivateCompany soft-deletes a company.
func (r *Repository) DeactivateCompany(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE companies SET is_active = FALSE, updated_at = $2 WHERE id = $1 AND is_active = TRUE`,
		id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("%s - deactivate company: %w", repoLogPrefix, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// =========================================================================
// PRODUCT OPERATIONS
// =========================================================================

// CreateProductParams holds parameters for CreateProduct.
type CreateProductParams struct {
	CompanyID   int64
	Name        string
	Description *string
	Category    string
	PriceMin    *float64
	PriceMax    *float64
	Currency    string
	MediaURL    *string
}

// CreateProduct inserts a product and returns the stored row.
func (r *Repository) CreateProduct(ctx context.Context, params CreateProductParams) (*Product, error) {
	slog.Info(fmt.Sprintf("%s - CreateProduct name=%s company=%d", repoLogPrefix, params.Name, params.CompanyID))

	currency := params.Currency
	if currency == "" {
		currency = "USD"
	}
	row := r.pool.QueryRow(ctx,
		`INSERT INTO products (company_id, name, description, category, price_min, price_max, currency, media_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, company_id, name, description, category, price_min, price_max, currency, media_url, is_active, created_at, updated_at`,
		params.CompanyID, params.Name, params.Description, params.Category, params.PriceMin, params.PriceMax, currency, params.MediaURL)
	return scanProduct(row)
}

// GetProduct finds an active product by ID. Returns nil when not found.
func (r *Repository) GetProduct(ctx context.Context, id int64) (*Product, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, company_id, name, description, category, price_min, price_max, currency, media_url, is_active, created_at, updated_at
		 FROM products
		 WHERE id = $1 AND is_active = TRUE
		 LIMIT 1`, id)
	return scanProduct(row)
}

// ListProductsParams holds filters for ListProducts.
type ListProductsParams struct {
	CompanyID int64
	Category  string
	Search    string
	Page      int
	PerPage   int
}

// ListProducts lists active products with optional filters.
func (r *Repository) ListProducts(ctx context.Context, params ListProductsParams) ([]Product, int, error) {
	page := params.Page
	if page < 1 {
		page = 1
	}
	perPage := params.PerPage
	if perPage < 1 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}
	offset := (page - 1) * perPage

	query := `SELECT id, company_id, name, description, category, price_min, price_max, currency, media_url, is_active, created_at, updated_at
	          FROM products WHERE is_active = TRUE`
	countQuery := `SELECT COUNT(*)::int FROM products WHERE is_active = TRUE`
	args := []any{}
	argIdx := 1

	if params.CompanyID > 0 {
		clause := fmt.Sprintf(` AND company_id = $%d`, argIdx)
		query += clause
		countQuery += clause
		args = append(args, params.CompanyID)
		argIdx++
	}
	if params.Category != "" {
		clause := fmt.Sprintf(` AND category ILIKE $%d`, argIdx)
		query += clause
		countQuery += clause
		args = append(args, "%"+params.Category+"%")
		argIdx++
	}
	if params.Search != "" {
		clause := fmt.Sprintf(` AND name ILIKE $%d`, argIdx)
		query += clause
		countQuery += clause
		args = append(args, "%"+params.Search+"%")
		argIdx++
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s - count products: %w", repoLogPrefix, err)
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, argIdx, argIdx+1)
	args = append(args, perPage, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s - list products: %w", repoLogPrefix, err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProductRows(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, *p)
	}
	return products, total, rows.Err()
}

// DeactivateProduct soft-deletes a product.
func (r *Repository) DeactivateProduct(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE products SET is_active = FALSE, updated_at = $2 WHERE id = $1 AND is_active = TRUE`,
		id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("%s - deactivate product: %w", repoLogPrefix, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// =========================================================================
// MESSAGE / CONVERSATION OPERATIONS
// =========================================================================

// CreateMessageParams holds parameters for CreateMessage.
type CreateMessageParams struct {
	ConversationID string
	SenderID       int64
	ReceiverID     int64
	MessageType    string
	Content        string
	MediaURL       *string
	Translations   map[string]string
}

// CreateMessage inserts a message and returns the stored row.
func (r *Repository) CreateMessage(ctx context.Context, params CreateMessageParams) (*Message, error) {
	messageType := params.MessageType
	if messageType == "" {
		messageType = "text"
	}
	var translations []byte
	if len(params.Translations) > 0 {
		var err error
		translations, err = json.Marshal(params.Translations)
		if err != nil {
			return nil, fmt.Errorf("%s - encode translations: %w", repoLogPrefix, err)
		}
	}

	row := r.pool.QueryRow(ctx,
		`INSERT INTO messages (conversation_id, sender_id, receiver_id, message_type, content, media_url, translations)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, conversation_id, sender_id, receiver_id, message_type, content, media_url, translations, is_read, created_at`,
		params.ConversationID, params.SenderID, params.ReceiverID, messageType, params.Content, params.MediaURL, translations)
	return scanMessage(row)
}

// ListMessages returns a page of a conversation's messages, oldest first.
func (r *Repository) ListMessages(ctx context.Context, conversationID string, page, perPage int) ([]Message, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 50
	}
	if perPage > 200 {
		perPage = 200
	}
	offset := (page - 1) * perPage

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*)::int FROM messages WHERE conversation_id = $1`, conversationID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s - count messages: %w", repoLogPrefix, err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, conversation_id, sender_id, receiver_id, message_type, content, media_url, translations, is_read, created_at
		 FROM messages
		 WHERE conversation_id = $1
		 ORDER BY created_at ASC
		 LIMIT $2 OFFSET $3`, conversationID, perPage, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%s - list messages: %w", repoLogPrefix, err)
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		m, err := scanMessageRows(rows)
		if err != nil {
			return nil, 0, err
		}
		messages = append(messages, *m)
	}
	return messages, total, rows.Err()
}

// ListConversations returns a user's conversations, most recent first, with
// the latest message, the other participant, and the unread count per entry.
func (r *Repository) ListConversations(ctx context.Context, userID int64) ([]ConversationSummary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT conversation_id FROM messages WHERE sender_id = $1 OR receiver_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("%s - list conversations: %w", repoLogPrefix, err)
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("%s - scan conversation id: %w", repoLogPrefix, err)
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	summaries := make([]ConversationSummary, 0, len(ids))
	for _, convID := range ids {
		latestRow := r.pool.QueryRow(ctx,
			`SELECT id, conversation_id, sender_id, receiver_id, message_type, content, media_url, translations, is_read, created_at
			 FROM messages
			 WHERE conversation_id = $1
			 ORDER BY created_at DESC
			 LIMIT 1`, convID)
		latest, err := scanMessage(latestRow)
		if err != nil {
			return nil, err
		}
		if latest == nil {
			continue
		}

		otherID := latest.ReceiverID
		if latest.SenderID != userID {
			otherID = latest.SenderID
		}
		otherUser, err := r.GetUser(ctx, otherID)
		if err != nil {
			return nil, err
		}

		var unread int
		if err := r.pool.QueryRow(ctx,
			`SELECT COUNT(*)::int FROM messages
			 WHERE conversation_id = $1 AND receiver_id = $2 AND is_read = FALSE`,
			convID, userID).Scan(&unread); err != nil {
			return nil, fmt.Errorf("%s - count unread: %w", repoLogPrefix, err)
		}

		summaries = append(summaries, ConversationSummary{
			ConversationID: convID,
			OtherUser:      otherUser,
			LatestMessage:  latest,
			UnreadCount:    unread,
		})
	}

	// Most recent activity first.
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].LatestMessage.CreatedAt.After(summaries[j].LatestMessage.CreatedAt)
	})
	return summaries, nil
}

// MarkConversationRead marks all of a receiver's messages in a conversation as read.
func (r *Repository) MarkConversationRead(ctx context.Context, conversationID string, receiverID int64) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE messages SET is_read = TRUE
		 WHERE conversation_id = $1 AND receiver_id = $2 AND is_read = FALSE`,
		conversationID, receiverID)
	if err != nil {
		return 0, fmt.Errorf("%s - mark read: %w", repoLogPrefix, err)
	}
	return tag.RowsAffected(), nil
}

// UserInConversation reports whether the user participates in the conversation.
func (r *Repository) UserInConversation(ctx context.Context, conversationID string, userID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM messages
		   WHERE conversation_id = $1 AND (sender_id = $2 OR receiver_id = $2)
		 )`, conversationID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s - check conversation membership: %w", repoLogPrefix, err)
	}
	return exists, nil
}

// =========================================================================
// MARKET RESEARCH OPERATIONS
// =========================================================================

// CreateResearch inserts a pending research record.
func (r *Repository) CreateResearch(ctx context.Context, userID int64, productName, targetCountry string) (*MarketResearch, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO market_research (user_id, product_name, target_country, status)
		 VALUES ($1, $2, $3, 'pending')
		 RETURNING id, user_id, product_name, target_country, status, results, created_at`,
		userID, productName, targetCountry)
	return scanResearch(row)
}

// CompleteResearch stores the aggregate results and flips the record status.
func (r *Repository) CompleteResearch(ctx context.Context, id int64, results []byte, status string) error {
	if status == "" {
		status = "completed"
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE market_research SET results = $2, status = $3 WHERE id = $1`,
		id, results, status)
	if err != nil {
		return fmt.Errorf("%s - complete research: %w", repoLogPrefix, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetResearch finds a research record by ID. Returns nil when not found.
func (r *Repository) GetResearch(ctx context.Context, id int64) (*MarketResearch, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, user_id, product_name, target_country, status, results, created_at
		 FROM market_research
		 WHERE id = $1
		 LIMIT 1`, id)
	return scanResearch(row)
}

// ErrNotFound is returned when a targeted row does not exist or is inactive.
var ErrNotFound = errors.New("db: not found")

// =========================================================================
// SCAN HELPERS
// =========================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*User, error) {
	u, err := scanUserRows(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func scanUserRows(row rowScanner) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Country, &u.Language,
		&u.IsVerified, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func scanCompany(row rowScanner) (*Company, error) {
	c, err := scanCompanyRows(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

func scanCompanyRows(row rowScanner) (*Company, error) {
	var c Company
	err := row.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Description, &c.Country, &c.Industry,
		&c.Website, &c.IsVerified, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func scanProduct(row rowScanner) (*Product, error) {
	p, err := scanProductRows(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func scanProductRows(row rowScanner) (*Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.CompanyID, &p.Name, &p.Description, &p.Category,
		&p.PriceMin, &p.PriceMax, &p.Currency, &p.MediaURL, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanMessage(row rowScanner) (*Message, error) {
	m, err := scanMessageRows(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return m, err
}

func scanMessageRows(row rowScanner) (*Message, error) {
	var m Message
	var translations []byte
	err := row.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.ReceiverID, &m.MessageType,
		&m.Content, &m.MediaURL, &translations, &m.IsRead, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	if len(translations) > 0 {
		if err := json.Unmarshal(translations, &m.Translations); err != nil {
			return nil, fmt.Errorf("%s - decode translations: %w", repoLogPrefix, err)
		}
	}
	return &m, nil
}

func scanResearch(row rowScanner) (*MarketResearch, error) {
	var mr MarketResearch
	var results []byte
	err := row.Scan(&mr.ID, &mr.UserID, &mr.ProductName, &mr.TargetCountry, &mr.Status, &results, &mr.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	mr.Results = results
	return &mr, nil
}
