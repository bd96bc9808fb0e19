package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/marlonlamer/personal-finance-expense-analyzer/internal/core"
)

// ErrUnreachable marks transport-level failures, as opposed to the server
// answering with an error status.
var ErrUnreachable = errors.New("server unreachable")

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// API talks to the REST server and keeps the snapshot store in sync.
// Mutations are optimistic: the snapshot changes first and rolls back when
// the server rejects the call.
type API struct {
	baseURL string
	http    *http.Client
	store   *Store
}

func NewAPI(baseURL string, httpClient *http.Client, store *Store) *API {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &API{baseURL: baseURL, http: httpClient, store: store}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account. The caller still has to log in.
func (a *API) Register(ctx context.Context, email, password string) error {
	return a.do(ctx, http.MethodPost, "/register", credentials{email, password}, nil)
}

// Login stores the session token in the snapshot on success.
func (a *API) Login(ctx context.Context, email, password string) error {
	var out struct {
		Token string `json:"token"`
	}
	if err := a.do(ctx, http.MethodPost, "/login", credentials{email, password}, &out); err != nil {
		return err
	}
	a.store.Update(func(s Snapshot) Snapshot { return s.WithToken(out.Token) })
	return nil
}

// Logout drops the session token.
func (a *API) Logout() {
	a.store.Update(func(s Snapshot) Snapshot { return s.WithToken("") })
}

// expenseDTO is the wire shape of an expense.
type expenseDTO struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Amount    float64 `json:"amount"`
	Category  string  `json:"category"`
	Date      string  `json:"date"`
	UserID    int64   `json:"userId"`
	CreatedAt string  `json:"createdAt"`
}

func (d expenseDTO) toCore() core.Expense {
	date, _ := time.Parse(time.RFC3339, d.Date)
	created, _ := time.Parse(time.RFC3339, d.CreatedAt)
	return core.Expense{
		ID:        d.ID,
		Title:     d.Title,
		Amount:    core.FromUnits(d.Amount),
		Category:  d.Category,
		Date:      date,
		UserID:    d.UserID,
		CreatedAt: created,
	}
}

type incomeDTO struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Amount    float64 `json:"amount"`
	Source    string  `json:"source"`
	Date      string  `json:"date"`
	UserID    int64   `json:"userId"`
	CreatedAt string  `json:"createdAt"`
}

func (d incomeDTO) toCore() core.Income {
	date, _ := time.Parse(time.RFC3339, d.Date)
	created, _ := time.Parse(time.RFC3339, d.CreatedAt)
	return core.Income{
		ID:        d.ID,
		Title:     d.Title,
		Amount:    core.FromUnits(d.Amount),
		Source:    d.Source,
		Date:      date,
		UserID:    d.UserID,
		CreatedAt: created,
	}
}

// RefreshExpenses reconciles the snapshot with server truth. When the fetch
// fails the cached list survives and is returned alongside the error.
func (a *API) RefreshExpenses(ctx context.Context) ([]core.Expense, error) {
	var dtos []expenseDTO
	if err := a.do(ctx, http.MethodGet, "/expenses", nil, &dtos); err != nil {
		slog.WarnContext(ctx, "Expense fetch failed, serving cached snapshot", "error", err)
		return a.store.Current().Expenses, err
	}

	list := make([]core.Expense, len(dtos))
	for i, d := range dtos {
		list[i] = d.toCore()
	}
	snap := a.store.Update(func(s Snapshot) Snapshot { return s.ReconcileExpenses(list) })
	return snap.Expenses, nil
}

// RefreshIncomes reconciles the snapshot's income list with server truth.
func (a *API) RefreshIncomes(ctx context.Context) ([]core.Income, error) {
	var dtos []incomeDTO
	if err := a.do(ctx, http.MethodGet, "/incomes", nil, &dtos); err != nil {
		slog.WarnContext(ctx, "Income fetch failed, serving cached snapshot", "error", err)
		return a.store.Current().Incomes, err
	}

	list := make([]core.Income, len(dtos))
	for i, d := range dtos {
		list[i] = d.toCore()
	}
	snap := a.store.Update(func(s Snapshot) Snapshot { return s.ReconcileIncomes(list) })
	return snap.Incomes, nil
}

type expenseForm struct {
	Title    string  `json:"title"`
	Amount   float64 `json:"amount"`
	Category string  `json:"category"`
	Date     string  `json:"date,omitempty"`
}

// CreateExpense sends the record to the server and prepends the confirmed
// row. When the server is unreachable a locally fabricated record, with the
// current unix milliseconds as id, stands in so offline entry keeps working.
// A rejection by a reachable server is returned as is.
func (a *API) CreateExpense(ctx context.Context, title string, amount core.Money, category string, date time.Time) (core.Expense, error) {
	form := expenseForm{Title: title, Amount: amount.Units(), Category: category}
	if !date.IsZero() {
		form.Date = date.UTC().Format(time.RFC3339)
	}

	var dto expenseDTO
	err := a.do(ctx, http.MethodPost, "/expenses", form, &dto)
	if err == nil {
		saved := dto.toCore()
		a.store.Update(func(s Snapshot) Snapshot { return s.PrependExpense(saved) })
		return saved, nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return core.Expense{}, err
	}

	local := core.Expense{
		ID:       time.Now().UnixMilli(),
		Title:    title,
		Amount:   amount,
		Category: category,
		Date:     date,
	}
	slog.WarnContext(ctx, "Create failed, keeping local expense", "error", err, "record_id", local.ID)
	a.store.Update(func(s Snapshot) Snapshot { return s.PrependExpense(local) })
	return local, nil
}

// DeleteExpense removes the record optimistically and restores it when the
// server call fails.
func (a *API) DeleteExpense(ctx context.Context, id int64) error {
	var removed core.Expense
	var found bool
	a.store.Update(func(s Snapshot) Snapshot {
		var next Snapshot
		next, removed, found = s.RemoveExpense(id)
		return next
	})

	err := a.do(ctx, http.MethodDelete, fmt.Sprintf("/expenses/%d", id), nil, nil)
	if err != nil && found {
		slog.WarnContext(ctx, "Delete failed, restoring expense", "error", err, "record_id", id)
		a.store.Update(func(s Snapshot) Snapshot { return s.PrependExpense(removed) })
	}
	return err
}

type incomeForm struct {
	Title  string  `json:"title"`
	Amount float64 `json:"amount"`
	Source string  `json:"source"`
	Date   string  `json:"date,omitempty"`
}

// CreateIncome mirrors CreateExpense for money-in records.
func (a *API) CreateIncome(ctx context.Context, title string, amount core.Money, source string, date time.Time) (core.Income, error) {
	form := incomeForm{Title: title, Amount: amount.Units(), Source: source}
	if !date.IsZero() {
		form.Date = date.UTC().Format(time.RFC3339)
	}

	var dto incomeDTO
	err := a.do(ctx, http.MethodPost, "/incomes", form, &dto)
	if err == nil {
		saved := dto.toCore()
		a.store.Update(func(s Snapshot) Snapshot { return s.PrependIncome(saved) })
		return saved, nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return core.Income{}, err
	}

	local := core.Income{
		ID:     time.Now().UnixMilli(),
		Title:  title,
		Amount: amount,
		Source: source,
		Date:   date,
	}
	slog.WarnContext(ctx, "Create failed, keeping local income", "error", err, "record_id", local.ID)
	a.store.Update(func(s Snapshot) Snapshot { return s.PrependIncome(local) })
	return local, nil
}

// DeleteIncome removes the record optimistically with restore on failure.
func (a *API) DeleteIncome(ctx context.Context, id int64) error {
	var removed core.Income
	var found bool
	a.store.Update(func(s Snapshot) Snapshot {
		var next Snapshot
		next, removed, found = s.RemoveIncome(id)
		return next
	})

	err := a.do(ctx, http.MethodDelete, fmt.Sprintf("/incomes/%d", id), nil, nil)
	if err != nil && found {
		slog.WarnContext(ctx, "Delete failed, restoring income", "error", err, "record_id", id)
		a.store.Update(func(s Snapshot) Snapshot { return s.PrependIncome(removed) })
	}
	return err
}

// do sends one JSON request. Transport failures wrap ErrUnreachable; non-2xx
// answers become *APIError.
func (a *API) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := a.store.Current().Token; token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		return &APIError{StatusCode: resp.StatusCode, Message: payload.Error}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
