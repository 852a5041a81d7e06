package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yungbote/gamenight-backend/internal/bga"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscoverLayout(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "raw", "games-bga", "game-list-and-IDs.html"), "<html></html>")
	writeFile(t, filepath.Join(root, "raw", "player-profiles", "dave", "dave-bga-profile.html"), "<html></html>")
	writeFile(t, filepath.Join(root, "raw", "player-profiles", "dave", "dave-avatar.jpg"), "jpg")
	writeFile(t, filepath.Join(root, "raw", "player-profiles", "alice", "alice-profile.html"), "<html></html>")
	writeFile(t, filepath.Join(root, "raw", "player-profiles", "ghost", "README.txt"), "nothing here")
	writeFile(t, filepath.Join(root, "raw", "player-stats", "dave", "dave-extracted-stats.json"), "{}")
	writeFile(t, filepath.Join(root, "raw", "player-stats", "dave", "dave-tables.json"), "{}")

	layout, err := DiscoverLayout(root)
	if err != nil {
		t.Fatalf("DiscoverLayout: %v", err)
	}
	if layout.CatalogPath == "" || filepath.Base(layout.CatalogPath) != "game-list-and-IDs.html" {
		t.Fatalf("CatalogPath: %q", layout.CatalogPath)
	}
	if len(layout.Players) != 3 {
		t.Fatalf("players: want=3 got=%d (%+v)", len(layout.Players), layout.Players)
	}
	if layout.Players[0].Name != "alice" || layout.Players[1].Name != "dave" || layout.Players[2].Name != "ghost" {
		t.Fatalf("player order: %+v", layout.Players)
	}

	alice := layout.Players[0]
	if !strings.HasSuffix(alice.ProfilePath, "alice-profile.html") {
		t.Fatalf("alice profile: %q", alice.ProfilePath)
	}
	if alice.AvatarRef != "" {
		t.Fatalf("alice avatar: %q", alice.AvatarRef)
	}

	dave := layout.Players[1]
	if !strings.HasSuffix(dave.ProfilePath, "dave-bga-profile.html") {
		t.Fatalf("dave profile: %q", dave.ProfilePath)
	}
	if dave.AvatarRef != "/avatars/dave-avatar.jpg" {
		t.Fatalf("dave avatar: %q", dave.AvatarRef)
	}

	if ghost := layout.Players[2]; ghost.ProfilePath != "" {
		t.Fatalf("ghost profile: %q", ghost.ProfilePath)
	}

	want := filepath.Join(root, "raw", "player-stats", "dave", "dave-extracted-stats.json")
	if got := layout.SnapshotPath("dave"); got != want {
		t.Fatalf("SnapshotPath: want=%q got=%q", want, got)
	}

	exports := layout.SessionExports("dave")
	if len(exports) != 1 || filepath.Base(exports[0]) != "dave-tables.json" {
		t.Fatalf("SessionExports: %v", exports)
	}
	if exports := layout.SessionExports("alice"); exports != nil {
		t.Fatalf("SessionExports for player without stats dir: %v", exports)
	}
}

func TestDiscoverLayoutMissingRoot(t *testing.T) {
	_, err := DiscoverLayout(filepath.Join(t.TempDir(), "nope"))
	if err == nil {
		t.Fatal("want error for missing root")
	}
	if _, ok := err.(*bga.ConfigurationError); !ok {
		t.Fatalf("error type: want *bga.ConfigurationError got %T", err)
	}
}

func TestDiscoverLayoutMissingProfilesDir(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "raw", "games-bga", "game-list-and-IDs.html"), "<html></html>")

	_, err := DiscoverLayout(root)
	if err == nil {
		t.Fatal("want error for missing profiles directory")
	}
	if _, ok := err.(*bga.ConfigurationError); !ok {
		t.Fatalf("error type: want *bga.ConfigurationError got %T", err)
	}
}
