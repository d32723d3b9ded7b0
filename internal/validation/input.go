// Package validation - проверки пользовательского текста, общие для профилей
// и предложений. Границы длины задают сами сущности.
package validation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ignatzorin/talent-escrow/internal/pkg/apperror"
)

var handleRegex = regexp.MustCompile(`^[a-z0-9_]+$`)

// ValidateLength проверяет длину строки в байтах: границы записей хранятся в байтах.
func ValidateLength(fieldName, value string, min, max int) error {
	if min > 0 && len(value) < min {
		return apperror.Newf(apperror.ErrCodeValidation, "%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && len(value) > max {
		return apperror.Newf(apperror.ErrCodeValidation, "%s должен быть не более %d байт", fieldName, max)
	}
	return nil
}

// ValidateHandle проверяет ник: только строчные латинские буквы, цифры и подчеркивание.
// Ожидается уже нормализованное значение.
func ValidateHandle(handle string, min, max int) error {
	if err := ValidateLength("ник", handle, min, max); err != nil {
		return err
	}
	if !handleRegex.MatchString(handle) {
		return apperror.New(apperror.ErrCodeValidation, "ник может содержать только буквы, цифры и подчеркивание")
	}
	return nil
}

// ValidateText проверяет свободный текст: корректный UTF-8 без управляющих символов,
// кроме перевода строки и табуляции.
func ValidateText(fieldName, value string, max int) error {
	if err := ValidateLength(fieldName, value, 0, max); err != nil {
		return err
	}
	if !utf8.ValidString(value) {
		return apperror.Newf(apperror.ErrCodeValidation, "%s содержит некорректный UTF-8", fieldName)
	}
	for _, r := range value {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return apperror.Newf(apperror.ErrCodeValidation, "%s содержит управляющие символы", fieldName)
		}
	}
	return nil
}

// ValidateSkills проверяет массив навыков.
func ValidateSkills(skills []string, maxCount, maxLength int) error {
	if len(skills) > maxCount {
		return apperror.Newf(apperror.ErrCodeValidation, "не более %d навыков", maxCount)
	}

	seen := make(map[string]bool, len(skills))
	for _, skill := range skills {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			return apperror.New(apperror.ErrCodeValidation, "навык не может быть пустым")
		}
		if err := ValidateText("навык", skill, maxLength); err != nil {
			return err
		}

		// дубликаты без учета регистра
		lower := strings.ToLower(skill)
		if seen[lower] {
			return apperror.Newf(apperror.ErrCodeValidation, "навык '%s' указан дважды", skill)
		}
		seen[lower] = true
	}
	return nil
}
