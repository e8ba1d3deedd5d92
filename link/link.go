package link

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"FractalViewer/fractal"
)

// Query keys of the coordinate link, f=j&r=<real>&i=<imaginary>
const (
	FamilyKey    = "f"
	RealKey      = "r"
	ImaginaryKey = "i"
)

// Link is a shareable reference to a fractal. Julia links carry the constant the set is rooted at.
type Link struct {
	Family   fractal.Family
	Constant complex128
}

func Julia(x float64, y float64) Link {
	return Link{Family: fractal.Julia, Constant: complex(x, y)}
}

func (l Link) Values() url.Values {
	values := url.Values{}
	if l.Family != fractal.Julia {
		values.Set(FamilyKey, "m")
		return values
	}
	values.Set(FamilyKey, "j")
	values.Set(RealKey, formatFloat(real(l.Constant)))
	values.Set(ImaginaryKey, formatFloat(imag(l.Constant)))
	return values
}

// Encode renders Values as a query string in the fixed f, r, i order instead of the sorted order of
// url.Values.Encode.
func (l Link) Encode() string {
	values := l.Values()
	parts := make([]string, 0, len(values))
	for _, key := range []string{FamilyKey, RealKey, ImaginaryKey} {
		if values.Has(key) {
			parts = append(parts, key+"="+url.QueryEscape(values.Get(key)))
		}
	}
	return strings.Join(parts, "&")
}

// URL appends the link to base, replacing any link keys base already had.
func (l Link) URL(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("unable to parse base url %s - %w", base, err)
	}

	values := u.Query()
	values.Del(FamilyKey)
	values.Del(RealKey)
	values.Del(ImaginaryKey)
	if len(values) == 0 {
		u.RawQuery = l.Encode()
	} else {
		u.RawQuery = values.Encode() + "&" + l.Encode()
	}
	return u.String(), nil
}

func (l Link) String() string {
	return "?" + l.Encode()
}

// Parse reads a link back out of query values. Missing coordinates on a Julia link default to zero, malformed
// ones are reported as a Constant configuration error.
func Parse(values url.Values) (Link, error) {
	family, err := fractal.ParseFamily(values.Get(FamilyKey))
	if err != nil {
		return Link{}, err
	}
	if family != fractal.Julia {
		return Link{Family: family}, nil
	}

	x, err := parseFloat(values.Get(RealKey))
	if err != nil {
		return Link{Family: family}, &fractal.ConfigurationError{Field: "Constant", Value: values.Get(RealKey), Reason: "real part is not a number"}
	}
	y, err := parseFloat(values.Get(ImaginaryKey))
	if err != nil {
		return Link{Family: family}, &fractal.ConfigurationError{Field: "Constant", Value: values.Get(ImaginaryKey), Reason: "imaginary part is not a number"}
	}
	return Julia(x, y), nil
}

func ParseQuery(query string) (Link, error) {
	values, err := url.ParseQuery(query)
	if err != nil {
		return Link{}, fmt.Errorf("unable to parse query %q - %w", query, err)
	}
	return Parse(values)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if !fractal.IsFinite(v) {
		return 0, fmt.Errorf("%s is not finite", s)
	}
	return v, nil
}
