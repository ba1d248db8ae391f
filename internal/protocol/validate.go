package protocol

// Field validators for the fixed-format identifiers used across the
// protocol. These run at the presentation boundary; the server additionally
// applies them defensively before touching the entity store.

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func isAlnum(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		default:
			return false
		}
	}
	return len(s) > 0
}

// IsUID reports whether s is a well-formed user id: exactly five digits.
// The reserved id "00000" is well-formed but rejected at registration.
func IsUID(s string) bool {
	return len(s) == 5 && isDigits(s)
}

// IsGID reports whether s is a well-formed group id: exactly two digits.
func IsGID(s string) bool {
	return len(s) == 2 && isDigits(s)
}

// IsMID reports whether s is a well-formed message id: exactly four digits.
func IsMID(s string) bool {
	return len(s) == 4 && isDigits(s)
}

// IsPassword reports whether s is a valid password: eight alphanumeric
// characters.
func IsPassword(s string) bool {
	return len(s) == 8 && isAlnum(s)
}

// IsGroupName reports whether s is a valid group name: up to 24 characters,
// alphanumeric plus '-' and '_'.
func IsGroupName(s string) bool {
	if s == "" || len(s) > MaxGroupNameLen {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r == '-' || r == '_':
		default:
			return false
		}
	}
	return true
}

// IsFileName reports whether s is a valid attachment name: up to 24
// characters, alphanumeric plus '-', '_' and '.', with no path structure.
func IsFileName(s string) bool {
	if s == "" || len(s) > MaxFileNameLen {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r == '-' || r == '_' || r == '.':
		default:
			return false
		}
	}
	return s != "." && s != ".."
}
