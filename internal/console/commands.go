package console

import (
	"errors"
	"strconv"
	"strings"

	"github.com/NateMachoka/AirBnB-clone-v2/pkg/types"
)

// numericAttrs are coerced by update regardless of class.
var numericAttrs = map[string]func(any) (any, error){
	"number_rooms":     asInt,
	"number_bathrooms": asInt,
	"max_guest":        asInt,
	"price_by_night":   asInt,
	"latitude":         asFloat,
	"longitude":        asFloat,
}

func asInt(v any) (any, error)   { return types.ToInt(v) }
func asFloat(v any) (any, error) { return types.ToFloat(v) }

// checkClass validates the class name argument and prints the diagnostic
// when it is missing or unknown.
func (sh *Shell) checkClass(class string) bool {
	if class == "" {
		sh.println(msgClassMissing)
		return false
	}
	if !types.IsClass(class) {
		sh.println(msgClassUnknown)
		return false
	}
	return true
}

// lookup validates class and id and fetches the object.
func (sh *Shell) lookup(class, id string) (types.Model, bool) {
	if !sh.checkClass(class) {
		return nil, false
	}
	if id == "" {
		sh.println(msgIDMissing)
		return nil, false
	}
	obj, err := sh.store.Get(class, id)
	if errors.Is(err, types.ErrNotFound) {
		sh.println(msgNotFound)
		return nil, false
	}
	if err != nil {
		sh.storeError(err)
		return nil, false
	}
	return obj, true
}

// commit registers obj and saves the store.
func (sh *Shell) commit(obj types.Model) bool {
	if err := sh.store.New(obj); err != nil {
		sh.storeError(err)
		return false
	}
	if err := sh.store.Save(); err != nil {
		sh.storeError(err)
		return false
	}
	return true
}

func (sh *Shell) doCreate(arg string) bool {
	words := splitQuoted(arg)
	if len(words) == 0 {
		sh.println(msgClassMissing)
		return false
	}
	if !sh.checkClass(words[0]) {
		return false
	}

	obj, err := types.NewModel(words[0])
	if err != nil {
		sh.storeError(err)
		return false
	}
	for _, param := range words[1:] {
		key, value, ok := parseParam(param)
		if !ok {
			sh.logger.Debug("ignoring parameter", "param", param)
			continue
		}
		if err := types.Set(obj, key, value); err != nil {
			sh.logger.Debug("ignoring parameter", "param", param, "error", err)
		}
	}

	if sh.commit(obj) {
		sh.println(obj.Base().ID)
	}
	return false
}

func (sh *Shell) doShow(arg string) bool {
	class, rest, _ := strings.Cut(arg, " ")
	id, _, _ := strings.Cut(strings.TrimSpace(rest), " ")
	if obj, ok := sh.lookup(class, id); ok {
		sh.println(types.Format(obj))
	}
	return false
}

func (sh *Shell) doDestroy(arg string) bool {
	// The whole remainder is the id, so trailing words never match.
	class, rest, _ := strings.Cut(arg, " ")
	obj, ok := sh.lookup(class, strings.TrimSpace(rest))
	if !ok {
		return false
	}
	if err := sh.store.Delete(obj); err != nil {
		sh.storeError(err)
		return false
	}
	if err := sh.store.Save(); err != nil {
		sh.storeError(err)
	}
	return false
}

func (sh *Shell) doAll(arg string) bool {
	class, _, _ := strings.Cut(arg, " ")
	if class != "" && !types.IsClass(class) {
		sh.println(msgClassUnknown)
		return false
	}

	objs, err := sh.store.All(class)
	if err != nil {
		sh.storeError(err)
		return false
	}
	items := make([]string, 0, len(objs))
	for _, key := range types.SortedKeys(objs) {
		items = append(items, types.Format(objs[key]))
	}
	sh.println("[" + strings.Join(items, ", ") + "]")
	return false
}

func (sh *Shell) doCount(arg string) bool {
	class, _, _ := strings.Cut(arg, " ")
	if !sh.checkClass(class) {
		return false
	}
	n, err := sh.store.Count(class)
	if err != nil {
		sh.storeError(err)
		return false
	}
	sh.println(strconv.Itoa(n))
	return false
}

func (sh *Shell) doUpdate(arg string) bool {
	class, rest, _ := strings.Cut(arg, " ")
	id, rest, _ := strings.Cut(strings.TrimSpace(rest), " ")
	obj, ok := sh.lookup(class, id)
	if !ok {
		return false
	}

	rest = strings.TrimSpace(rest)
	var updates []pair
	if strings.HasPrefix(rest, "{") {
		if pairs, err := parseMapping(rest); err == nil {
			if len(pairs) == 0 {
				sh.println(msgAttrMissing)
				return false
			}
			updates = pairs
		}
	}
	if updates == nil {
		name, value := splitAttr(rest)
		if name == "" {
			sh.println(msgAttrMissing)
			return false
		}
		if value == "" {
			sh.println(msgValueMissing)
			return false
		}
		updates = []pair{{Key: name, Value: value}}
	}

	// obj is a private copy, so a failure part way leaves the store as it was.
	for _, u := range updates {
		value := u.Value
		if coerce, ok := numericAttrs[u.Key]; ok {
			v, err := coerce(value)
			if err != nil {
				sh.println(msgValueType)
				return false
			}
			value = v
		}
		if err := types.Set(obj, u.Key, value); err != nil {
			if errors.Is(err, types.ErrTypeMismatch) {
				sh.println(msgValueType)
			} else {
				sh.storeError(err)
			}
			return false
		}
	}

	obj.Base().Touch()
	sh.commit(obj)
	return false
}

// splitAttr splits "name value" for update. A value starting with a double
// quote runs to the closing quote and may contain spaces; otherwise it ends
// at the first space.
func splitAttr(s string) (name, value string) {
	name, rest, _ := strings.Cut(s, " ")
	rest = strings.TrimSpace(rest)
	if strings.HasPrefix(rest, `"`) {
		if end := closingQuote(rest); end > 0 {
			return name, strings.ReplaceAll(rest[1:end], `\"`, `"`)
		}
		return name, strings.Trim(rest, `"`)
	}
	value, _, _ = strings.Cut(rest, " ")
	return name, value
}

// closingQuote returns the index of the unescaped double quote closing the
// string that opens at s[0], or -1.
func closingQuote(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}

// splitQuoted splits s on spaces outside double quotes. Quotes are kept.
func splitQuoted(s string) []string {
	var words []string
	var cur strings.Builder
	inQuote := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\\' && inQuote && i+1 < len(s):
			cur.WriteByte(c)
			i++
			cur.WriteByte(s[i])
		case c == '"':
			inQuote = !inQuote
			cur.WriteByte(c)
		case c == ' ' && !inQuote:
			if cur.Len() > 0 {
				words = append(words, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteByte(c)
		}
	}
	if cur.Len() > 0 {
		words = append(words, cur.String())
	}
	return words
}

// parseParam decodes one create parameter key=value. Quoted values have
// underscores turned into spaces and \" unescaped. Unquoted values with a
// decimal point become floats, other digits ints; anything unparsable stays
// a string.
func parseParam(param string) (string, any, bool) {
	key, value, ok := strings.Cut(param, "=")
	if !ok || key == "" || value == "" {
		return "", nil, false
	}

	if len(value) >= 2 && strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) {
		s := value[1 : len(value)-1]
		s = strings.ReplaceAll(s, "_", " ")
		s = strings.ReplaceAll(s, `\"`, `"`)
		return key, s, true
	}
	if strings.Contains(value, ".") {
		if f, err := types.ToFloat(value); err == nil {
			return key, f, true
		}
		return key, value, true
	}
	if n, err := strconv.Atoi(value); err == nil {
		return key, n, true
	}
	return key, value, true
}
