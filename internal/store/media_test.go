package store

import (
	"testing"

	"github.com/google/uuid"

	"inkpress/internal/models"
)

func TestMediaStoreCreateAndFind(t *testing.T) {
	db := testDB(t)
	s := NewMediaStore(db)
	uploader := testUser(t, db, "media-store@test.local")

	t.Cleanup(func() {
		db.Exec(`DELETE FROM media WHERE s3_key LIKE 'test/media-store/%'`)
	})

	alt := "A test image"
	created, err := s.Create(&models.Media{
		Filename:     "photo.jpg",
		OriginalName: "My Photo.JPG",
		ContentType:  "image/jpeg",
		SizeBytes:    12345,
		Bucket:       "inkpress-public",
		S3Key:        "test/media-store/photo.jpg",
		AltText:      &alt,
		UploaderID:   uploader.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Fatal("expected generated ID")
	}

	found, err := s.FindByID(created.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found == nil {
		t.Fatal("expected media, got nil")
	}
	if found.AltText == nil || *found.AltText != alt {
		t.Error("alt text not persisted")
	}
	if !found.IsImage() {
		t.Error("jpeg should report as image")
	}
}

func TestMediaStoreVariants(t *testing.T) {
	db := testDB(t)
	s := NewMediaStore(db)
	uploader := testUser(t, db, "media-variants@test.local")

	t.Cleanup(func() {
		db.Exec(`DELETE FROM media WHERE s3_key LIKE 'test/media-variants/%'`)
	})

	m, err := s.Create(&models.Media{
		Filename:     "wide.png",
		OriginalName: "wide.png",
		ContentType:  "image/png",
		SizeBytes:    999,
		Bucket:       "inkpress-public",
		S3Key:        "test/media-variants/wide.png",
		UploaderID:   uploader.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	for _, v := range []struct {
		name  string
		width int
	}{{"lg", 1920}, {"sm", 640}, {"md", 1024}} {
		_, err := s.AddVariant(&models.MediaVariant{
			MediaID:     m.ID,
			Name:        v.name,
			Width:       v.width,
			Height:      v.width / 2,
			S3Key:       "test/media-variants/wide_" + v.name + ".jpg",
			ContentType: "image/jpeg",
			SizeBytes:   100,
		})
		if err != nil {
			t.Fatalf("AddVariant %s: %v", v.name, err)
		}
	}

	// Re-adding a variant with the same name replaces it.
	if _, err := s.AddVariant(&models.MediaVariant{
		MediaID:     m.ID,
		Name:        "sm",
		Width:       700,
		Height:      350,
		S3Key:       "test/media-variants/wide_sm.jpg",
		ContentType: "image/jpeg",
		SizeBytes:   120,
	}); err != nil {
		t.Fatalf("AddVariant replace: %v", err)
	}

	variants, err := s.VariantsFor(m.ID)
	if err != nil {
		t.Fatalf("VariantsFor: %v", err)
	}
	if len(variants) != 3 {
		t.Fatalf("variants: got %d, want 3", len(variants))
	}
	// Ordered by width ascending; the replaced sm is 700 wide.
	if variants[0].Name != "sm" || variants[0].Width != 700 {
		t.Errorf("first variant: got %s/%d, want sm/700", variants[0].Name, variants[0].Width)
	}
	if variants[2].Name != "lg" {
		t.Errorf("last variant: got %s, want lg", variants[2].Name)
	}
}

func TestMediaStoreDeleteCascadesVariants(t *testing.T) {
	db := testDB(t)
	s := NewMediaStore(db)
	uploader := testUser(t, db, "media-delete@test.local")

	t.Cleanup(func() {
		db.Exec(`DELETE FROM media WHERE s3_key LIKE 'test/media-delete/%'`)
	})

	m, err := s.Create(&models.Media{
		Filename:     "gone.jpg",
		OriginalName: "gone.jpg",
		ContentType:  "image/jpeg",
		SizeBytes:    1,
		Bucket:       "inkpress-public",
		S3Key:        "test/media-delete/gone.jpg",
		UploaderID:   uploader.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := s.AddVariant(&models.MediaVariant{
		MediaID: m.ID, Name: "sm", Width: 640, Height: 480,
		S3Key: "test/media-delete/gone_sm.jpg", ContentType: "image/jpeg", SizeBytes: 1,
	}); err != nil {
		t.Fatalf("AddVariant: %v", err)
	}

	deleted, err := s.Delete(m.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleted == nil || deleted.S3Key != m.S3Key {
		t.Error("Delete should return the removed row")
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM media_variants WHERE media_id = $1`, m.ID).Scan(&count); err != nil {
		t.Fatalf("count variants: %v", err)
	}
	if count != 0 {
		t.Errorf("variants after delete: got %d, want 0", count)
	}

	// Deleting again reports not found, not an error.
	again, err := s.Delete(m.ID)
	if err != nil {
		t.Fatalf("second Delete: %v", err)
	}
	if again != nil {
		t.Error("second Delete should return nil")
	}
}
