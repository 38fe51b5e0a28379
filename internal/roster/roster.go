// Package roster resolves the abbreviations and team names found in an
// export against operator-maintained identity mappings. Resolution is exact
// match only: an abbreviation either maps or it is reported back for mapping
// maintenance, never guessed at.
package roster

import (
	"errors"

	"github.com/fortuna/statline/internal/textutil"
)

// ErrPlayerNotFound reports an abbreviation with no mapping entry. The caller
// drops the row and records the abbreviation for operator review.
var ErrPlayerNotFound = errors.New("player abbreviation not mapped")

// PlayerIdentity is the canonical identity behind an abbreviation.
type PlayerIdentity struct {
	Slug     string
	Name     string
	Position string
}

// TeamIdentity is the canonical identity behind a raw team name.
type TeamIdentity struct {
	Slug        string
	DisplayName string
}

// Key scopes a player lookup to a roster. Abbreviations like "J.Smith" can
// collide across teams, so entries may be scoped to a team slug; an empty
// TeamSlug marks a global fallback entry.
type Key struct {
	TeamSlug string
	Abbrev   string
}

// PlayerEntry is one player mapping in the configuration file. Team is
// optional; when set, the entry only matches rows attributed to that team.
type PlayerEntry struct {
	Slug     string `yaml:"slug"`
	Name     string `yaml:"name"`
	Position string `yaml:"position"`
	Team     string `yaml:"team"`
}

// TeamEntry is one team mapping in the configuration file. Display overrides
// the tab title used by ledger destinations; it defaults to the raw name.
type TeamEntry struct {
	Slug    string `yaml:"slug"`
	Display string `yaml:"display"`
}

// Mapping is the identity configuration as loaded from YAML: players keyed
// by abbreviation, teams keyed by the exact raw name the exports use.
type Mapping struct {
	Players map[string]PlayerEntry `yaml:"players"`
	Teams   map[string]TeamEntry   `yaml:"teams"`
}

// Resolver answers identity lookups from a loaded Mapping. It is read-only
// reference data; build it once at startup and pass it down.
type Resolver struct {
	players map[Key]PlayerIdentity
	teams   map[string]TeamIdentity
}

// NewResolver indexes a mapping for lookup. Team-scoped player entries are
// keyed by (team, abbreviation); unscoped entries act as global fallbacks.
func NewResolver(m Mapping) *Resolver {
	r := &Resolver{
		players: make(map[Key]PlayerIdentity, len(m.Players)),
		teams:   make(map[string]TeamIdentity, len(m.Teams)),
	}

	for abbrev, entry := range m.Players {
		r.players[Key{TeamSlug: entry.Team, Abbrev: abbrev}] = PlayerIdentity{
			Slug:     entry.Slug,
			Name:     entry.Name,
			Position: entry.Position,
		}
	}

	for name, entry := range m.Teams {
		display := entry.Display
		if display == "" {
			display = name
		}
		r.teams[name] = TeamIdentity{Slug: entry.Slug, DisplayName: display}
	}

	return r
}

// ResolvePlayer looks up an abbreviation for a row attributed to teamSlug.
// A team-scoped entry wins over a global one; anything else is
// ErrPlayerNotFound.
func (r *Resolver) ResolvePlayer(teamSlug, abbrev string) (PlayerIdentity, error) {
	if p, ok := r.players[Key{TeamSlug: teamSlug, Abbrev: abbrev}]; ok {
		return p, nil
	}
	if p, ok := r.players[Key{Abbrev: abbrev}]; ok {
		return p, nil
	}
	return PlayerIdentity{}, ErrPlayerNotFound
}

// ResolveTeam maps a raw team name to an identity. Unconfigured names get a
// synthesized identity from slugification, so every team always resolves.
func (r *Resolver) ResolveTeam(name string) TeamIdentity {
	if t, ok := r.teams[name]; ok {
		return t
	}
	return TeamIdentity{Slug: textutil.Slugify(name), DisplayName: name}
}
