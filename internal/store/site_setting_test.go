package store

import "testing"

func TestSiteSettingStoreSetAndGet(t *testing.T) {
	db := testDB(t)
	s := NewSiteSettingStore(db)

	key := "test_setting_key"
	t.Cleanup(func() { db.Exec("DELETE FROM site_settings WHERE key = $1", key) })

	if err := s.Set(key, "first"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, err := s.Get(key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v != "first" {
		t.Errorf("got %q, want %q", v, "first")
	}

	// Upsert overwrites.
	if err := s.Set(key, "second"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	v, err = s.Get(key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v != "second" {
		t.Errorf("got %q, want %q", v, "second")
	}

	// Absent keys come back empty without error.
	v, err = s.Get("test_setting_missing")
	if err != nil {
		t.Fatalf("Get missing: %v", err)
	}
	if v != "" {
		t.Errorf("missing key: got %q, want empty", v)
	}
}

func TestSiteSettingStoreSetMany(t *testing.T) {
	db := testDB(t)
	s := NewSiteSettingStore(db)

	keys := []string{"test_many_a", "test_many_b"}
	t.Cleanup(func() {
		for _, k := range keys {
			db.Exec("DELETE FROM site_settings WHERE key = $1", k)
		}
	})

	err := s.SetMany(map[string]string{
		"test_many_a": "alpha",
		"test_many_b": "beta",
	})
	if err != nil {
		t.Fatalf("SetMany: %v", err)
	}

	all, err := s.All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if all["test_many_a"] != "alpha" || all["test_many_b"] != "beta" {
		t.Errorf("SetMany values not persisted: %v", all)
	}

	// Migration defaults are present.
	if _, ok := all["site_title"]; !ok {
		t.Error("expected default site_title from migrations")
	}
}
