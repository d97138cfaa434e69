package forms

import (
	"net/url"

	"github.com/Billy-Davies-2/scrimhub-ui/internal/models"
)

// ParseProfile reads the profile edit form into the PUT body
func ParseProfile(v url.Values) (models.ProfileUpdate, Errors) {
	in := models.ProfileUpdate{
		TeamName: value(v, "team_name"),
		Tag:      value(v, "tag"),
		MainGame: value(v, "main_game"),
		Bio:      value(v, "bio"),
		LogoURL:  value(v, "logo_url"),
	}
	socials := models.Socials{
		Discord: value(v, "discord"),
		Twitter: value(v, "twitter"),
		Twitch:  value(v, "twitch"),
	}
	if socials != (models.Socials{}) {
		in.Socials = &socials
	}

	errs := Errors{}
	required(errs, "team_name", in.TeamName)
	if in.MainGame != "" && models.RolesFor(in.MainGame) == nil {
		errs.Add("main_game", msgUnknownGame)
	}
	return in, errs
}

// ProfileValues is the inverse of ParseProfile, used to prefill the form
func ProfileValues(t models.Team) url.Values {
	v := url.Values{}
	v.Set("team_name", t.TeamName)
	v.Set("tag", t.Tag)
	v.Set("main_game", t.MainGame)
	v.Set("bio", t.Bio)
	v.Set("logo_url", t.LogoURL)
	if t.Socials != nil {
		v.Set("discord", t.Socials.Discord)
		v.Set("twitter", t.Socials.Twitter)
		v.Set("twitch", t.Socials.Twitch)
	}
	return v
}

// ParsePlayer reads the add-player form. The role must belong to mainGame.
func ParsePlayer(v url.Values, mainGame string) (models.PlayerCreate, Errors) {
	in := models.PlayerCreate{
		Nickname: value(v, "nickname"),
		FullName: value(v, "full_name"),
		Role:     value(v, "role"),
	}
	errs := Errors{}
	required(errs, "nickname", in.Nickname)
	if in.Role != "" {
		switch {
		case models.RolesFor(mainGame) == nil:
			errs.Add("role", msgNoGame)
		case !models.ValidRole(mainGame, in.Role):
			errs.Add("role", msgUnknownRole)
		}
	}
	return in, errs
}
