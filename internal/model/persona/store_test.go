package persona_test

import (
	"testing"

	"github.com/zhouzirui/z-style/backend/internal/model/persona"
)

func TestMemoryStoreFindByID(t *testing.T) {
	store := persona.NewMemoryStore([]persona.Persona{
		{ID: "fashion", Enabled: true, Version: "v2"},
		{ID: "support", Enabled: true, Version: "v1"},
	})

	got, ok := store.FindByID("support")
	if !ok {
		t.Fatal("expected support persona")
	}
	if got.Version != "v1" {
		t.Fatalf("unexpected version: %s", got.Version)
	}

	if _, ok := store.FindByID("missing"); ok {
		t.Fatal("expected missing persona to be absent")
	}
}

func TestMemoryStoreListIsCopy(t *testing.T) {
	store := persona.NewMemoryStore([]persona.Persona{{ID: "fashion"}})

	items := store.List()
	items[0].ID = "changed"

	if store.List()[0].ID != "fashion" {
		t.Fatal("List must return a copy")
	}
}
