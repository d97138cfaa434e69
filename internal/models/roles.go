package models

// Primary games a team can pick.
const (
	GameValorant = "Valorant"
	GameCS2      = "CS2"
	GameLoL      = "League of Legends"
)

var gameRoles = map[string][]string{
	GameValorant: {"Duelista", "Iniciador", "Controlador", "Sentinela"},
	GameCS2:      {"Entry Fragger", "AWPer", "Suporte", "Lurker", "IGL"},
	GameLoL:      {"Topo", "Caçador", "Meio", "Atirador", "Suporte"},
}

// Games lists the selectable primary games in display order.
func Games() []string {
	return []string{GameValorant, GameCS2, GameLoL}
}

// RolesFor returns the role vocabulary of a game, or nil when the game is
// unset or unknown. The returned slice is a copy.
func RolesFor(game string) []string {
	roles, ok := gameRoles[game]
	if !ok {
		return nil
	}
	out := make([]string, len(roles))
	copy(out, roles)
	return out
}

// ValidRole reports whether role is empty or part of game's vocabulary.
func ValidRole(game, role string) bool {
	if role == "" {
		return true
	}
	for _, r := range gameRoles[game] {
		if r == role {
			return true
		}
	}
	return false
}
