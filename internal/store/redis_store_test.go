package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/evyataryagoni/schoolfinder/internal/models"
)

// newTestRedisStore starts miniredis and connects a store to it
func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)

	store, err := NewRedisStore(context.Background(), mr.Addr(), "", 0)
	if err != nil {
		t.Fatalf("failed to connect to Redis: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store, mr
}

// TestRedisStore_Connection tests Redis connection
func TestRedisStore_Connection(t *testing.T) {
	store, _ := newTestRedisStore(t)

	if store.client == nil {
		t.Error("expected client to be initialized")
	}
	if err := store.Ping(context.Background()); err != nil {
		t.Errorf("unexpected ping error: %v", err)
	}
}

// TestRedisStore_ConnectionFailure tests connection errors
func TestRedisStore_ConnectionFailure(t *testing.T) {
	_, err := NewRedisStore(context.Background(), "invalid:9999", "", 0)

	if err == nil {
		t.Error("expected connection error, got nil")
	}
}

// TestRedisStore_InsertSchool_AssignsSequentialIDs tests id allocation
func TestRedisStore_InsertSchool_AssignsSequentialIDs(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	for i, name := range []string{"First", "Second", "Third"} {
		school := &models.School{Name: name, Address: "Somewhere", Latitude: 1, Longitude: 2}
		if err := store.InsertSchool(ctx, school); err != nil {
			t.Fatalf("insert %s: %v", name, err)
		}
		if school.ID != uint64(i+1) {
			t.Errorf("expected id %d, got %d", i+1, school.ID)
		}
	}

	seq, err := mr.Get("schools:seq")
	if err != nil {
		t.Fatalf("expected sequence key: %v", err)
	}
	if seq != "3" {
		t.Errorf("expected sequence 3, got %s", seq)
	}
	if !mr.Exists("schools") {
		t.Error("expected schools hash to exist")
	}
}

// TestRedisStore_FetchAllSchools tests round trip and id ordering
func TestRedisStore_FetchAllSchools(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	input := []models.School{
		{Name: "Colégio São Bento", Address: "São Paulo", Latitude: -23.5442, Longitude: -46.6340},
		{Name: "北京四中", Address: "北京", Latitude: 39.9289, Longitude: 116.3652},
		{Name: "Null Island Academy", Address: "Gulf of Guinea", Latitude: 0, Longitude: 0},
	}
	for i := range input {
		if err := store.InsertSchool(ctx, &input[i]); err != nil {
			t.Fatalf("insert failed: %v", err)
		}
	}

	schools, err := store.FetchAllSchools(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(schools) != len(input) {
		t.Fatalf("expected %d schools, got %d", len(input), len(schools))
	}
	for i, school := range schools {
		if school != input[i] {
			t.Errorf("school %d: expected %+v, got %+v", i, input[i], school)
		}
	}
}

// TestRedisStore_FetchAllSchools_Empty tests an empty hash
func TestRedisStore_FetchAllSchools_Empty(t *testing.T) {
	store, _ := newTestRedisStore(t)

	schools, err := store.FetchAllSchools(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if schools == nil || len(schools) != 0 {
		t.Errorf("expected empty slice, got %#v", schools)
	}
}

// TestRedisStore_FetchAllSchools_CorruptValue tests decode errors
func TestRedisStore_FetchAllSchools_CorruptValue(t *testing.T) {
	store, mr := newTestRedisStore(t)

	mr.HSet("schools", "1", "{not json")

	if _, err := store.FetchAllSchools(context.Background()); err == nil {
		t.Error("expected decode error, got nil")
	}
}

// TestRedisStore_ServerDown tests errors once the server is gone
func TestRedisStore_ServerDown(t *testing.T) {
	store, mr := newTestRedisStore(t)
	mr.Close()

	ctx := context.Background()
	if err := store.InsertSchool(ctx, &models.School{Name: "A", Address: "B"}); err == nil {
		t.Error("expected insert error with server down")
	}
	if _, err := store.FetchAllSchools(ctx); err == nil {
		t.Error("expected fetch error with server down")
	}
	if err := store.Ping(ctx); err == nil {
		t.Error("expected ping error with server down")
	}
}

// TestRedisStore_IsEmptyAndLoadSchools tests the bulk import helpers
func TestRedisStore_IsEmptyAndLoadSchools(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	isEmpty, err := store.IsEmpty(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !isEmpty {
		t.Error("expected store to be empty")
	}

	n, err := store.LoadSchools(ctx, []models.School{
		{Name: "A", Address: "1 A St", Latitude: 1, Longitude: 1},
		{Name: "B", Address: "2 B St", Latitude: 2, Longitude: 2},
	})
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 loaded, got %d", n)
	}

	isEmpty, err = store.IsEmpty(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if isEmpty {
		t.Error("expected store to not be empty")
	}
}

// TestRedisStore_Close_NilClient tests close with nil client
func TestRedisStore_Close_NilClient(t *testing.T) {
	store := &RedisStore{client: nil}

	if err := store.Close(); err != nil {
		t.Errorf("expected no error for nil client, got: %v", err)
	}
}
