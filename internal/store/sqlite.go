// Package store persists budget snapshots. SQLite is the default backend;
// a plain JSON file is available for portability.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/balancebuddy/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// SQLite stores the budget as one state row plus a table per collection.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at dbPath.
func OpenSQLite(dbPath string) (*SQLite, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening budget db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// querier is the subset of *sql.DB, *sql.Tx and *sql.Conn the row helpers need.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Save replaces the stored snapshot with st in a single transaction.
func (s *SQLite) Save(st model.State) error {
	ctx := context.Background()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := saveState(ctx, tx, st); err != nil {
		return err
	}
	return tx.Commit()
}

// Load reads the stored snapshot. found is false on a fresh database.
func (s *SQLite) Load() (model.State, bool, error) {
	return loadState(context.Background(), s.db)
}

// Update reads the stored snapshot, hands it to fn and writes the result
// back, all under one write lock. Other processes sharing the database wait
// on busy_timeout until the update commits. Nothing is written when fn
// returns false.
func (s *SQLite) Update(fn func(st *model.State, found bool) bool) error {
	ctx := context.Background()
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquiring connection: %w", err)
	}
	defer func() { _ = conn.Close() }()

	if _, err := conn.ExecContext(ctx, "BEGIN IMMEDIATE"); err != nil {
		return fmt.Errorf("locking budget db: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_, _ = conn.ExecContext(ctx, "ROLLBACK")
		}
	}()

	st, found, err := loadState(ctx, conn)
	if err != nil {
		return err
	}
	if !fn(&st, found) {
		return nil
	}
	if err := saveState(ctx, conn, st); err != nil {
		return err
	}
	if _, err := conn.ExecContext(ctx, "COMMIT"); err != nil {
		return fmt.Errorf("committing budget db: %w", err)
	}
	committed = true
	return nil
}

func saveState(ctx context.Context, q querier, st model.State) error {
	onboarded := 0
	if st.OnboardingComplete {
		onboarded = 1
	}

	_, err := q.ExecContext(ctx, `INSERT OR REPLACE INTO budget_state
		(id, balance, savings_goal_weekly, saved_this_month, last_month, last_year, onboarding_complete, saved_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?)`,
		st.Balance.String(), st.SavingsGoalWeekly.String(), st.SavedThisMonth.String(),
		st.LastMonth, st.LastYear, onboarded, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("saving state row: %w", err)
	}

	for _, table := range []string{"fixed_incomes", "fixed_expenses", "transactions"} {
		if _, err := q.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	for i, inc := range st.FixedIncomes {
		_, err = q.ExecContext(ctx, `INSERT INTO fixed_incomes (id, position, name, amount, due_day, received)
			VALUES (?, ?, ?, ?, ?, ?)`,
			inc.ID, i, inc.Name, inc.Amount.String(), inc.DueDay, boolInt(inc.Received))
		if err != nil {
			return fmt.Errorf("saving fixed income %s: %w", inc.ID, err)
		}
	}

	for i, exp := range st.FixedExpenses {
		_, err = q.ExecContext(ctx, `INSERT INTO fixed_expenses (id, position, name, amount, due_day, paid)
			VALUES (?, ?, ?, ?, ?, ?)`,
			exp.ID, i, exp.Name, exp.Amount.String(), exp.DueDay, boolInt(exp.Paid))
		if err != nil {
			return fmt.Errorf("saving fixed expense %s: %w", exp.ID, err)
		}
	}

	for i, t := range st.Transactions {
		_, err = q.ExecContext(ctx, `INSERT INTO transactions (id, position, date, amount, category, description, type, fixed)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, i, t.Date.Format(time.RFC3339Nano), t.Amount.String(), t.Category, t.Description,
			string(t.Type), boolInt(t.Fixed))
		if err != nil {
			return fmt.Errorf("saving transaction %s: %w", t.ID, err)
		}
	}
	return nil
}

func loadState(ctx context.Context, q querier) (model.State, bool, error) {
	var st model.State
	var onboarded int
	err := q.QueryRowContext(ctx, `SELECT balance, savings_goal_weekly, saved_this_month,
		last_month, last_year, onboarding_complete FROM budget_state WHERE id = 1`).Scan(
		&st.Balance, &st.SavingsGoalWeekly, &st.SavedThisMonth,
		&st.LastMonth, &st.LastYear, &onboarded,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.State{}, false, nil
	}
	if err != nil {
		return model.State{}, false, fmt.Errorf("reading state row: %w", err)
	}
	st.OnboardingComplete = onboarded != 0

	if st.FixedIncomes, err = loadIncomes(ctx, q); err != nil {
		return model.State{}, false, err
	}
	if st.FixedExpenses, err = loadExpenses(ctx, q); err != nil {
		return model.State{}, false, err
	}
	if st.Transactions, err = loadTransactions(ctx, q); err != nil {
		return model.State{}, false, err
	}

	if err := st.Validate(); err != nil {
		return model.State{}, false, err
	}
	return st, true, nil
}

func loadIncomes(ctx context.Context, q querier) ([]model.FixedIncome, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, name, amount, due_day, received
		FROM fixed_incomes ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("reading fixed incomes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	incomes := []model.FixedIncome{}
	for rows.Next() {
		var inc model.FixedIncome
		var received int
		if err := rows.Scan(&inc.ID, &inc.Name, &inc.Amount, &inc.DueDay, &received); err != nil {
			return nil, fmt.Errorf("scanning fixed income: %w", err)
		}
		inc.Received = received != 0
		incomes = append(incomes, inc)
	}
	return incomes, rows.Err()
}

func loadExpenses(ctx context.Context, q querier) ([]model.FixedExpense, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, name, amount, due_day, paid
		FROM fixed_expenses ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("reading fixed expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	expenses := []model.FixedExpense{}
	for rows.Next() {
		var exp model.FixedExpense
		var paid int
		if err := rows.Scan(&exp.ID, &exp.Name, &exp.Amount, &exp.DueDay, &paid); err != nil {
			return nil, fmt.Errorf("scanning fixed expense: %w", err)
		}
		exp.Paid = paid != 0
		expenses = append(expenses, exp)
	}
	return expenses, rows.Err()
}

func loadTransactions(ctx context.Context, q querier) ([]model.Transaction, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, date, amount, category, description, type, fixed
		FROM transactions ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("reading transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	txs := []model.Transaction{}
	for rows.Next() {
		var t model.Transaction
		var date, typ string
		var fixed int
		if err := rows.Scan(&t.ID, &date, &t.Amount, &t.Category, &t.Description, &typ, &fixed); err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}
		t.Date, err = time.Parse(time.RFC3339Nano, date)
		if err != nil {
			return nil, fmt.Errorf("%w: transaction %s date %q", model.ErrMalformedSnapshot, t.ID, date)
		}
		t.Type = model.TxType(typ)
		t.Fixed = fixed != 0
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
