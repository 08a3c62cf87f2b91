package session

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/dmitrymomot/sessionguard/pkg/fingerprint"
)

// User is one database row carried by a session: field name to scalar value.
type User map[string]any

// ID returns the "id" field, if any.
func (u User) ID() (any, bool) {
	id, ok := u["id"]
	return id, ok
}

// MarshalJSON writes whole-number floats with a fractional part ("10.0") so
// that UnmarshalJSON restores them as float64, not int64.
func (u User) MarshalJSON() ([]byte, error) {
	if u == nil {
		return []byte("null"), nil
	}
	out := make(map[string]any, len(u))
	for k, v := range u {
		if f, ok := v.(float64); ok && f == math.Trunc(f) && !math.IsInf(f, 0) {
			out[k] = json.RawMessage(strconv.FormatFloat(f, 'f', -1, 64) + ".0")
			continue
		}
		out[k] = v
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes numbers as int64 when integral and float64 otherwise,
// so a normalized User survives a JSON round trip unchanged.
func (u *User) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	if raw == nil {
		*u = nil
		return nil
	}

	out := make(User, len(raw))
	for k, v := range raw {
		n, ok := v.(json.Number)
		if !ok {
			out[k] = v
			continue
		}
		if i, err := n.Int64(); err == nil {
			out[k] = i
			continue
		}
		f, err := n.Float64()
		if err != nil {
			return err
		}
		out[k] = f
	}
	*u = out
	return nil
}

// Record is the authenticated-user snapshot encoded into a session token.
// IP and Agent are captured once at issuance and never updated.
type Record struct {
	User  User   `json:"user"`
	IP    string `json:"ip"`
	Agent string `json:"agent"`
}

// NewRecord binds a user to the given client fingerprint.
func NewRecord(user User, fp fingerprint.Fingerprint) Record {
	return Record{
		User:  user,
		IP:    fp.IP,
		Agent: fp.UserAgent,
	}
}

// Fingerprint returns the client attributes recorded at issuance.
func (r Record) Fingerprint() fingerprint.Fingerprint {
	return fingerprint.Fingerprint{IP: r.IP, UserAgent: r.Agent}
}

// NormalizeUser converts a database row into the canonical User form:
// integers become int64 (unsigned values above math.MaxInt64 become decimal
// strings), floats and numerics float64, times RFC 3339 strings, byte slices
// and UUIDs strings, fmt.Stringer values their string, other driver.Valuer
// values (pgtype scalars) whatever their driver value normalizes to. Nil and
// NULL fields are dropped. Non-finite numbers, collections and anything else
// yield ErrUnsupportedValue.
func NormalizeUser(row map[string]any) (User, error) {
	user := make(User, len(row))
	for k, v := range row {
		nv, ok, err := normalizeValue(v)
		if err != nil {
			return nil, fmt.Errorf("%w: field %q has type %T", err, k, v)
		}
		if ok {
			user[k] = nv
		}
	}
	return user, nil
}

func normalizeValue(v any) (any, bool, error) {
	switch val := v.(type) {
	case nil:
		return nil, false, nil
	case string, bool, int64:
		return val, true, nil
	case float64:
		return finite(val)
	case float32:
		return finite(float64(val))
	case int:
		return int64(val), true, nil
	case int8:
		return int64(val), true, nil
	case int16:
		return int64(val), true, nil
	case int32:
		return int64(val), true, nil
	case uint8:
		return int64(val), true, nil
	case uint16:
		return int64(val), true, nil
	case uint32:
		return int64(val), true, nil
	case uint:
		return unsigned(uint64(val))
	case uint64:
		return unsigned(val)
	case time.Time:
		return val.UTC().Format(time.RFC3339), true, nil
	case []byte:
		return string(val), true, nil
	case [16]byte:
		// pgx scans uuid columns into [16]byte when no type is registered.
		return uuid.UUID(val).String(), true, nil
	case pgtype.Numeric:
		return numeric(val)
	case fmt.Stringer:
		return val.String(), true, nil
	case driver.Valuer:
		dv, err := val.Value()
		if err != nil {
			return nil, false, errors.Join(ErrUnsupportedValue, err)
		}
		if _, again := dv.(driver.Valuer); again {
			return nil, false, ErrUnsupportedValue
		}
		return normalizeValue(dv)
	default:
		return nil, false, ErrUnsupportedValue
	}
}

func finite(f float64) (any, bool, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false, ErrUnsupportedValue
	}
	return f, true, nil
}

func unsigned(u uint64) (any, bool, error) {
	if u > math.MaxInt64 {
		return strconv.FormatUint(u, 10), true, nil
	}
	return int64(u), true, nil
}

// numeric converts a PostgreSQL numeric column. Precision beyond float64 is lost.
func numeric(n pgtype.Numeric) (any, bool, error) {
	if !n.Valid {
		return nil, false, nil
	}
	if n.NaN || n.InfinityModifier != pgtype.Finite {
		return nil, false, ErrUnsupportedValue
	}
	f, err := n.Float64Value()
	if err != nil {
		return nil, false, errors.Join(ErrUnsupportedValue, err)
	}
	return finite(f.Float64)
}
