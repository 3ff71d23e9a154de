package indexes_test

import (
	"testing"

	"github.com/morteam/server/internal/app/system/indexes"
	"github.com/morteam/server/internal/testutil"
)

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("first EnsureAll failed: %v", err)
	}
	// Running again against existing indexes must be a no-op.
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("second EnsureAll failed: %v", err)
	}

	cur, err := db.Collection("users").Indexes().List(ctx)
	if err != nil {
		t.Fatalf("listing indexes failed: %v", err)
	}
	var specs []interface{}
	if err := cur.All(ctx, &specs); err != nil {
		t.Fatalf("reading indexes failed: %v", err)
	}
	// _id plus the two ensured indexes.
	if len(specs) < 3 {
		t.Errorf("expected at least 3 indexes on users, got %d", len(specs))
	}
}
