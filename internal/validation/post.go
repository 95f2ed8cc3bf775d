package validation

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// slugPattern is the URL-safe shape every slug must have: lowercase
// alphanumeric runs separated by single hyphens.
var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	must(v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	}))
	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Meta is a post's frontmatter header. Slug, title, date and author are
// required; tags are optional but must be unique. Extra carries unrecognized
// keys through a round-trip untouched.
type Meta struct {
	Slug        string    `yaml:"slug" validate:"required,slug"`
	Title       string    `yaml:"title" validate:"required"`
	Date        time.Time `yaml:"-" validate:"required"`
	Author      string    `yaml:"author" validate:"required"`
	Tags        []string  `yaml:"tags,omitempty" validate:"omitempty,unique,dive,required"`
	Description string    `yaml:"description,omitempty"`
	HeroImage   string    `yaml:"hero_image,omitempty"`

	Extra map[string]any `yaml:"-"`
}

// metaHeader is the wire shape of Meta: the date travels as a string so that
// both plain ISO dates and RFC 3339 timestamps round-trip.
type metaHeader struct {
	Slug        string         `yaml:"slug"`
	Title       string         `yaml:"title"`
	Date        string         `yaml:"date"`
	Author      string         `yaml:"author"`
	Tags        []string       `yaml:"tags,omitempty"`
	Description string         `yaml:"description,omitempty"`
	HeroImage   string         `yaml:"hero_image,omitempty"`
	Extra       map[string]any `yaml:",inline"`
}

const dateLayout = "2006-01-02"

// DecodeMeta maps a parsed frontmatter header into Meta. Unknown keys land in
// Extra. The date is accepted as 2006-01-02 or RFC 3339.
func DecodeMeta(raw map[string]any) (Meta, error) {
	var m Meta

	for key, value := range raw {
		switch key {
		case "slug":
			m.Slug, _ = value.(string)
		case "title":
			m.Title, _ = value.(string)
		case "author":
			m.Author, _ = value.(string)
		case "description":
			m.Description, _ = value.(string)
		case "hero_image":
			m.HeroImage, _ = value.(string)
		case "date":
			date, err := decodeDate(value)
			if err != nil {
				return Meta{}, err
			}
			m.Date = date
		case "tags":
			tags, err := decodeTags(value)
			if err != nil {
				return Meta{}, err
			}
			m.Tags = tags
		default:
			if m.Extra == nil {
				m.Extra = make(map[string]any)
			}
			m.Extra[key] = value
		}
	}

	return m, nil
}

func decodeDate(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case string:
		if t, err := time.Parse(dateLayout, v); err == nil {
			return t, nil
		}
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t, nil
		}
		return time.Time{}, fmt.Errorf("date %q is not an ISO date", v)
	default:
		return time.Time{}, fmt.Errorf("date has unsupported type %T", value)
	}
}

func decodeTags(value any) ([]string, error) {
	list, ok := value.([]any)
	if !ok {
		return nil, errors.New("tags must be a list of strings")
	}

	tags := make([]string, 0, len(list))
	for _, item := range list {
		tag, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("tag %v is not a string", item)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// EncodeMeta serializes a header back to YAML. DecodeMeta(parse(EncodeMeta(m)))
// is equivalent to m; optional field order is irrelevant.
func EncodeMeta(m Meta) ([]byte, error) {
	header := metaHeader{
		Slug:        m.Slug,
		Title:       m.Title,
		Author:      m.Author,
		Tags:        m.Tags,
		Description: m.Description,
		HeroImage:   m.HeroImage,
		Extra:       m.Extra,
	}
	if !m.Date.IsZero() {
		header.Date = formatDate(m.Date)
	}

	return yaml.Marshal(header)
}

// ParseMeta decodes a raw YAML frontmatter document into Meta. Used by tests
// and the round-trip property; live parsing goes through goldmark.
func ParseMeta(data []byte) (Meta, error) {
	var raw map[string]any
	err := yaml.Unmarshal(data, &raw)
	if err != nil {
		return Meta{}, err
	}
	return DecodeMeta(raw)
}

func formatDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format(dateLayout)
	}
	return t.Format(time.RFC3339)
}

// ValidateMeta checks the required-field and shape invariants of a header and
// returns one message per violation.
func ValidateMeta(m Meta) []string {
	err := validate.Struct(m)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, metaMessage(m, fe))
	}
	sort.Strings(msgs)
	return msgs
}

func metaMessage(m Meta, fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch {
	case fe.Tag() == "required":
		return field + " is required"
	case fe.Tag() == "slug":
		return fmt.Sprintf("slug %q is not URL-safe", m.Slug)
	case fe.Tag() == "unique":
		return "tags contain duplicates"
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}
