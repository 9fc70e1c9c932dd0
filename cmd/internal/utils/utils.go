package utils

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"medisched/cmd/internal/domain/entity"
)

const DateLayout = "2006-01-02"

const (
	MorningTime = "09:00"
	EveningTime = "16:00"
)

var ErrBadSlotLabel = errors.New("slot label must be Morning or Evening")

func FormatEpoch(millis int64) string {
	return time.UnixMilli(millis).
		UTC().
		Format(time.RFC3339)
}

func NowUTC() int64 {
	return time.Now().
		UTC().
		UnixMilli()
}

// TodayDate returns the current UTC day in canonical YYYY-MM-DD form.
func TodayDate() string {
	return time.Now().UTC().Format(DateLayout)
}

// ParseDate checks a YYYY-MM-DD string against the calendar and returns it in
// canonical form (e.g. "2025-3-07" comes back as "2025-03-07").
func ParseDate(raw string) (string, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return t.Format(DateLayout), nil
}

// ParseSlotLabel normalizes a slot label, accepting any casing on input.
// Unrecognized labels are rejected rather than silently becoming Evening.
func ParseSlotLabel(raw string) (entity.SlotType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "morning":
		return entity.SlotMorning, nil
	case "evening":
		return entity.SlotEvening, nil
	}
	return "", ErrBadSlotLabel
}

// SlotTime maps a slot type to its fixed appointment time.
func SlotTime(slot entity.SlotType) string {
	if slot == entity.SlotMorning {
		return MorningTime
	}
	return EveningTime
}

// ParseSlotToken splits a compound availability token of the form
// "<ISO-date>_<SlotLabel>" as submitted by the availability form.
func ParseSlotToken(token string) (date string, slot entity.SlotType, err error) {
	raw, label, found := strings.Cut(strings.TrimSpace(token), "_")
	if !found {
		return "", "", errors.New("slot token must be <date>_<label>")
	}

	date, err = ParseDate(raw)
	if err != nil {
		return "", "", err
	}

	slot, err = ParseSlotLabel(label)
	if err != nil {
		return "", "", err
	}
	return date, slot, nil
}

func Sanitize(o any) {
	v := reflect.ValueOf(o)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		panic("sanitize: expected pointer to struct")
	}

	v = v.Elem()
	if v.Kind() != reflect.Struct {
		panic("sanitize: expected struct")
	}

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		switch field.Kind() {
		case reflect.String:
			field.SetString(sanitizeString(field.String()))

		case reflect.Slice:
			if field.Type().Elem().Kind() == reflect.String {
				for j := 0; j < field.Len(); j++ {
					field.Index(j).SetString(sanitizeString(field.Index(j).String()))
				}
			}
		}
	}
}

func sanitizeString(s string) string {
	return strings.TrimSpace(s)
}
