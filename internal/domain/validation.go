package domain

import "regexp"

var (
	loginRe = regexp.MustCompile(`^[A-Za-z0-9]{4,64}$`)
	// Пароль: мин 8, буквы в разных регистрах, цифра, символ
	upperRe = regexp.MustCompile(`[A-Z]`)
	lowerRe = regexp.MustCompile(`[a-z]`)
	digitRe = regexp.MustCompile(`[0-9]`)
	symRe   = regexp.MustCompile(`[^A-Za-z0-9]`)

	unitRe     = regexp.MustCompile(`^(g|kg|ml|l|pcs)$`)
	locationRe = regexp.MustCompile(`^(fridge|freezer|shelf)$`)
)

func ValidLogin(s string) bool {
	return loginRe.MatchString(s)
}

func ValidPassword(s string) bool {
	if len(s) < 8 {
		return false
	}
	return upperRe.MatchString(s) && lowerRe.MatchString(s) && digitRe.MatchString(s) && symRe.MatchString(s)
}

func ValidFoodName(s string) bool {
	return len(s) > 0 && len(s) <= 200
}

func ValidUnit(s string) bool {
	return unitRe.MatchString(s)
}

func ValidLocation(s string) bool {
	return s == "" || locationRe.MatchString(s)
}
