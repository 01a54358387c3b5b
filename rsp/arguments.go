package rsp

import "strings"

const warnAsError = "warnaserror"

// Lookup groups extra compiler arguments by option name, keeping first-seen order
// for both keys and values.
type Lookup struct {
	keys   []string
	values map[string][]string
}

// Values returns all values for key.
func (l Lookup) Values(key string) []string {
	return l.values[strings.ToLower(key)]
}

// First returns the first value for key, or "".
func (l Lookup) First(key string) string {
	values := l.Values(key)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// Keys returns the option names in first-seen order.
func (l Lookup) Keys() []string {
	return l.keys
}

// OtherArguments collects the free-form arguments of all response files into a Lookup.
// Only tokens starting with "/" or "-" are considered. The option name is the text up
// to the first colon and the value is the rest. A token without a colon whose name
// starts with "warnaserror" is filed under "warnaserror" with the remaining text as
// value. Duplicate name/value pairs are collapsed.
func OtherArguments(datas []Data) Lookup {
	lookup := Lookup{values: make(map[string][]string)}
	seen := make(map[string]struct{})

	for _, data := range datas {
		for _, arg := range data.OtherArguments {
			key, value, ok := parseOtherArgument(arg)
			if !ok {
				continue
			}
			pair := key + "\x00" + value
			if _, dup := seen[pair]; dup {
				continue
			}
			seen[pair] = struct{}{}
			if _, exists := lookup.values[key]; !exists {
				lookup.keys = append(lookup.keys, key)
			}
			lookup.values[key] = append(lookup.values[key], value)
		}
	}
	return lookup
}

func parseOtherArgument(arg string) (string, string, bool) {
	if !strings.HasPrefix(arg, "/") && !strings.HasPrefix(arg, "-") {
		return "", "", false
	}
	if idx := strings.Index(arg, ":"); idx > 0 {
		return strings.ToLower(arg[1:idx]), arg[idx+1:], true
	}
	if strings.HasPrefix(strings.ToLower(arg[1:]), warnAsError) {
		return warnAsError, arg[len(warnAsError)+1:], true
	}
	return "", "", false
}
