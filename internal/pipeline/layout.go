package pipeline

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yungbote/gamenight-backend/internal/bga"
)

// Input layout under the data root. The pipeline only ever reads from here;
// the one exception is the extracted-stats snapshot written next to the raw
// player-stats inputs.
const (
	catalogRelPath  = "raw/games-bga/game-list-and-IDs.html"
	profilesRelPath = "raw/player-profiles"
	statsRelPath    = "raw/player-stats"

	avatarURLPrefix = "/avatars/"
)

// PlayerDir is one roster directory and the documents found inside it. The
// directory name doubles as the fallback username when the profile document
// does not carry one.
type PlayerDir struct {
	Name        string
	ProfilePath string // empty when the directory holds no profile document
	AvatarRef   string // local serving path when the avatar file exists
}

type Layout struct {
	Root        string
	CatalogPath string // empty when the catalog document is absent
	Players     []PlayerDir
}

// DiscoverLayout walks the data root. A missing root or profiles directory is
// a ConfigurationError. A missing catalog document is left for the caller to
// check: stats extraction never needs it.
func DiscoverLayout(root string) (*Layout, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, bga.NewConfigurationError(root, "data root missing or not a directory", err)
	}

	l := &Layout{Root: root}
	catalog := filepath.Join(root, filepath.FromSlash(catalogRelPath))
	if _, err := os.Stat(catalog); err == nil {
		l.CatalogPath = catalog
	}

	profilesDir := filepath.Join(root, filepath.FromSlash(profilesRelPath))
	entries, err := os.ReadDir(profilesDir)
	if err != nil {
		return nil, bga.NewConfigurationError(profilesDir, "player profiles directory unreadable", err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		l.Players = append(l.Players, discoverPlayerDir(profilesDir, entry.Name()))
	}
	sort.Slice(l.Players, func(i, j int) bool { return l.Players[i].Name < l.Players[j].Name })
	return l, nil
}

func discoverPlayerDir(profilesDir, name string) PlayerDir {
	pd := PlayerDir{Name: name}
	dir := filepath.Join(profilesDir, name)
	for _, candidate := range []string{
		name + "-bga-profile.html",
		name + "-profile.html",
	} {
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); err == nil {
			pd.ProfilePath = path
			break
		}
	}
	avatar := name + "-avatar.jpg"
	if _, err := os.Stat(filepath.Join(dir, avatar)); err == nil {
		pd.AvatarRef = avatarURLPrefix + avatar
	}
	return pd
}

// SnapshotPath is where the stats extractor writes, and the importer reads,
// the per-player extracted-stats file.
func (l *Layout) SnapshotPath(player string) string {
	return filepath.Join(l.Root, filepath.FromSlash(statsRelPath), player, player+"-extracted-stats.json")
}

// SessionExports lists the table-export documents for one player: every JSON
// file in the player's stats directory except the extracted-stats snapshot.
func (l *Layout) SessionExports(player string) []string {
	dir := filepath.Join(l.Root, filepath.FromSlash(statsRelPath), player)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		if strings.HasSuffix(name, "-extracted-stats.json") {
			continue
		}
		out = append(out, filepath.Join(dir, name))
	}
	sort.Strings(out)
	return out
}
