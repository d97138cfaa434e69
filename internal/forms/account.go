package forms

import (
	"net/url"

	"github.com/Billy-Davies-2/scrimhub-ui/internal/models"
)

// Login is the sign-in form
type Login struct {
	Email    string
	Password string
}

// ParseLogin reads email and password
func ParseLogin(v url.Values) (Login, Errors) {
	in := Login{Email: value(v, "email"), Password: v.Get("password")}
	errs := Errors{}
	required(errs, "email", in.Email)
	required(errs, "password", in.Password)
	return in, errs
}

// Register is the sign-up form
type Register struct {
	Email    string
	TeamName string
	Password string
	MainGame string
}

// ParseRegister reads and checks the sign-up form
func ParseRegister(v url.Values) (Register, Errors) {
	in := Register{
		Email:    value(v, "email"),
		TeamName: value(v, "team_name"),
		Password: v.Get("password"),
		MainGame: value(v, "main_game"),
	}
	errs := Errors{}
	required(errs, "email", in.Email)
	required(errs, "team_name", in.TeamName)
	required(errs, "password", in.Password)
	required(errs, "main_game", in.MainGame)

	if in.Email != "" && !validEmail(in.Email) {
		errs.Add("email", msgEmail)
	}
	if in.Password != "" && !longEnough(in.Password, MinPasswordLength) {
		errs.Add("password", msgPasswordShort)
	}
	if in.MainGame != "" && models.RolesFor(in.MainGame) == nil {
		errs.Add("main_game", msgUnknownGame)
	}
	return in, errs
}

// Body is the POST /teams payload
func (r Register) Body() models.TeamCreate {
	return models.TeamCreate{
		Email:    r.Email,
		TeamName: r.TeamName,
		Password: r.Password,
		MainGame: r.MainGame,
	}
}
