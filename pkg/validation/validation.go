package validation

import (
	"regexp"
	"strings"
	"time"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)
)

func ValidateEmail(email string) bool {
	email = strings.TrimSpace(email)
	return email != "" && emailRegex.MatchString(email) && len(email) <= 200
}

func ValidatePhone(phone string) bool {
	phone = strings.TrimSpace(phone)
	return phone != "" && phoneRegex.MatchString(phone) && len(phone) <= 50
}

func ValidateUsername(username string) bool {
	username = strings.TrimSpace(username)
	return len(username) >= 2 && len(username) <= 150
}

func ValidatePassword(password string) bool {
	return len(password) >= 6 && len(password) <= 100
}

func ValidateRole(role string) bool {
	return role == "driver" || role == "passenger"
}

func ValidatePlace(place string) bool {
	place = strings.TrimSpace(place)
	return place != "" && len(place) <= 200
}

// ValidateDate accepts YYYY-MM-DD.
func ValidateDate(date string) bool {
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}

// ValidateTime accepts HH:MM or HH:MM:SS.
func ValidateTime(t string) bool {
	if _, err := time.Parse("15:04", t); err == nil {
		return true
	}
	_, err := time.Parse("15:04:05", t)
	return err == nil
}

func ValidateSeats(seats int) bool {
	return seats >= 1 && seats <= 50
}

func ValidatePrice(price float64) bool {
	return price >= 0
}
