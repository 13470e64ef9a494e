package user

import "strings"

// Directory resolves export rows and partner names to users.
//
// Lookup order: employee code, then the name compared case-insensitively after
// trimming, then the name with spaces turned into dots ("John Doe" -> "john.doe")
// for accounts stored under the dotted convention. A name shared by two
// accounts is ambiguous and never matches.
type Directory struct {
	byCode    map[string]User
	byName    map[string]User
	ambiguous map[string]bool
}

func NewDirectory(users []User) *Directory {
	d := &Directory{
		byCode: make(map[string]User, len(users)),
		byName:    make(map[string]User, len(users)),
		ambiguous: make(map[string]bool),
	}
	for _, u := range users {
		if code := normalizeCode(u.EmployeeCode); code != "" {
			d.byCode[code] = u
		}
		if name := normalizeName(u.Name); name != "" {
			if other, taken := d.byName[name]; taken && other.ID != u.ID {
				d.ambiguous[name] = true
				continue
			}
			d.byName[name] = u
		}
	}
	return d
}

// Match finds the user for an export row.
func (d *Directory) Match(code, name string) (User, bool) {
	if c := normalizeCode(code); c != "" {
		if u, ok := d.byCode[c]; ok {
			return u, true
		}
	}
	return d.MatchName(name)
}

// MatchName applies only the name rules.
func (d *Directory) MatchName(name string) (User, bool) {
	n := normalizeName(name)
	if n == "" {
		return User{}, false
	}
	for _, key := range []string{n, strings.ReplaceAll(n, " ", ".")} {
		if d.ambiguous[key] {
			return User{}, false
		}
		if u, ok := d.byName[key]; ok {
			return u, true
		}
	}
	return User{}, false
}

// Ambiguous reports whether name resolves to more than one account.
func (d *Directory) Ambiguous(name string) bool {
	n := normalizeName(name)
	return d.ambiguous[n] || d.ambiguous[strings.ReplaceAll(n, " ", ".")]
}

func normalizeCode(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}
