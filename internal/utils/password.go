package utils

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const specialCharacters = "!@#$%^&*()_+/,.?[]"

// HashPassword 生成密码哈希
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword 校验明文密码与哈希是否匹配
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePassword 密码强度校验：至少 8 位，至少一个大写字母和一个特殊字符
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("密码不能少于 8 位")
	}
	hasUpper := false
	for _, r := range password {
		if unicode.IsUpper(r) {
			hasUpper = true
			break
		}
	}
	if !hasUpper {
		return errors.New("密码至少需要一个大写字母")
	}
	if !strings.ContainsAny(password, specialCharacters) {
		return errors.New("密码至少需要一个特殊字符 " + specialCharacters)
	}
	return nil
}
