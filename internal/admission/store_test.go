package admission

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"testing"
	"time"

	"go.uber.org/zap"
)

// stubQuery steers the single admit statement per test case: one row means
// the lock was acquired, zero rows means the user is still in cool-down,
// an error stands in for an unreachable store.
var stubQuery func() (driver.Rows, error)

type stubDriver struct{}

func (stubDriver) Open(string) (driver.Conn, error) { return stubConn{}, nil }

type stubConn struct{}

func (stubConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("unexpected Prepare") }
func (stubConn) Close() error                        { return nil }
func (stubConn) Begin() (driver.Tx, error)           { return nil, errors.New("unexpected Begin") }

func (stubConn) QueryContext(context.Context, string, []driver.NamedValue) (driver.Rows, error) {
	return stubQuery()
}

type acquiredRows struct{ done bool }

func (r *acquiredRows) Columns() []string { return []string{"bool"} }
func (r *acquiredRows) Close() error      { return nil }
func (r *acquiredRows) Next(dest []driver.Value) error {
	if r.done {
		return io.EOF
	}
	r.done = true
	dest[0] = true
	return nil
}

type noRows struct{}

func (noRows) Columns() []string        { return []string{"bool"} }
func (noRows) Close() error             { return nil }
func (noRows) Next([]driver.Value) error { return io.EOF }

func init() {
	sql.Register("admission_stub", stubDriver{})
}

func TestStoreTryAdmit(t *testing.T) {
	db, err := sql.Open("admission_stub", "")
	if err != nil {
		t.Fatalf("open stub db: %v", err)
	}
	defer db.Close()

	store := NewStore(db, 30*time.Second, zap.NewNop())
	ctx := context.Background()

	tests := []struct {
		name     string
		query    func() (driver.Rows, error)
		expected bool
	}{
		{
			"Lock acquired",
			func() (driver.Rows, error) { return &acquiredRows{}, nil },
			true,
		},
		{
			"Still in cool-down",
			func() (driver.Rows, error) { return noRows{}, nil },
			false,
		},
		{
			"Unreachable store fails open",
			func() (driver.Rows, error) { return nil, errors.New("connection refused") },
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubQuery = tt.query
			result := store.TryAdmit(ctx, 42)
			if result != tt.expected {
				t.Errorf("TryAdmit() = %v, expected %v", result, tt.expected)
			}
		})
	}
}
