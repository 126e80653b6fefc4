package memory

import (
	"context"
	"testing"
)

func TestStoreRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := New()
	if _, ok, err := store.GetValue(ctx, "authToken"); err != nil || ok {
		t.Fatalf("GetValue(empty) = ok %v, err %v", ok, err)
	}
	if err := store.PutValue(ctx, "authToken", "tok"); err != nil {
		t.Fatalf("PutValue: %v", err)
	}
	value, ok, err := store.GetValue(ctx, "authToken")
	if err != nil || !ok || value != "tok" {
		t.Fatalf("GetValue = %q, %v, %v", value, ok, err)
	}
	if err := store.DeleteValue(ctx, "authToken"); err != nil {
		t.Fatalf("DeleteValue: %v", err)
	}
	if err := store.DeleteValue(ctx, "authToken"); err != nil {
		t.Fatalf("DeleteValue(absent): %v", err)
	}
	if _, ok, _ := store.GetValue(ctx, "authToken"); ok {
		t.Fatal("expected key to be gone")
	}
}

func TestStoreRejectsUseAfterClose(t *testing.T) {
	t.Parallel()

	store := New()
	_ = store.Close()
	if err := store.PutValue(context.Background(), "k", "v"); err == nil {
		t.Fatal("expected closed store to reject writes")
	}
	if _, _, err := store.GetValue(context.Background(), " "); err == nil {
		t.Fatal("expected blank key to be rejected")
	}
}
