package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS budget_state (
    id                   INTEGER PRIMARY KEY CHECK (id = 1),
    balance              TEXT NOT NULL,
    savings_goal_weekly  TEXT NOT NULL,
    saved_this_month     TEXT NOT NULL,
    last_month           INTEGER NOT NULL,
    last_year            INTEGER NOT NULL,
    onboarding_complete  INTEGER NOT NULL DEFAULT 0,
    saved_at             TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS fixed_incomes (
    id                   TEXT PRIMARY KEY,
    position             INTEGER NOT NULL,
    name                 TEXT NOT NULL,
    amount               TEXT NOT NULL,
    due_day              INTEGER NOT NULL,
    received             INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS fixed_expenses (
    id                   TEXT PRIMARY KEY,
    position             INTEGER NOT NULL,
    name                 TEXT NOT NULL,
    amount               TEXT NOT NULL,
    due_day              INTEGER NOT NULL,
    paid                 INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS transactions (
    id                   TEXT PRIMARY KEY,
    position             INTEGER NOT NULL,
    date                 TEXT NOT NULL,
    amount               TEXT NOT NULL,
    category             TEXT NOT NULL,
    description          TEXT NOT NULL,
    type                 TEXT NOT NULL,
    fixed                INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date);
`
