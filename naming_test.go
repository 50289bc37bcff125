package tableau

import (
	"errors"
	"testing"
)

func TestFormatFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"My Photo.PNG", "my_photo.png"},
		{"a  \t b.jpg", "a_b.jpg"},
		{"already_fine.png", "already_fine.png"},
		{" lead", "_lead"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := FormatFilename(tt.in); got != tt.want {
			t.Errorf("FormatFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateImageName(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"My Photo.PNG", "my_photo.png", false},
		{"scan.jpeg", "scan.jpeg", false},
		{"pic.JPG", "pic.jpg", false},
		{"Photo 1.GIF", "", true},
		{"notes.txt", "", true},
		{".png", "", true},
		{"png", "", true},
		{"archive.png.zip", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateImageName(tt.name)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidExtension) {
					t.Fatalf("err = %v, want ErrInvalidExtension", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("id = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUniqueIdentifier(t *testing.T) {
	taken := map[string]bool{"a.png": true, "a_2.png": true}
	has := func(s string) bool { return taken[s] }

	if got := uniqueIdentifier("b.png", has); got != "b.png" {
		t.Errorf("free id changed to %q", got)
	}
	if got := uniqueIdentifier("a.png", has); got != "a_3.png" {
		t.Errorf("got %q, want a_3.png", got)
	}
}

func TestArchiveName(t *testing.T) {
	s := NewScene()
	if err := s.Apply(SceneRenamed{Name: "Beach Day"}); err != nil {
		t.Fatal(err)
	}
	if got := ArchiveName(s); got != "beach_day.zip" {
		t.Errorf("ArchiveName = %q", got)
	}
	if got := ManifestName(s); got != "beach_day.json" {
		t.Errorf("ManifestName = %q", got)
	}
}
