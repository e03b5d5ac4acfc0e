package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/amanthanvi/mediahub/internal/app"
	"github.com/amanthanvi/mediahub/internal/storage"
)

// formValues backs the add/edit form. The model holds it by pointer so
// huh keeps writing into the same struct across Update copies.
type formValues struct {
	title       string
	mediaType   string
	genre       string
	month       string
	day         string
	year        string
	director    string
	description string
	rating      string
	status      string
	imagePath   string
}

func newItemForm(vals *formValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&vals.title).
				Validate(requireText("title")),
			huh.NewSelect[string]().
				Title("Media type").
				Options(huh.NewOptions(app.MediaTypes...)...).
				Value(&vals.mediaType),
			huh.NewSelect[string]().
				Title("Genre").
				Options(optionalOptions(app.Genres)...).
				Value(&vals.genre),
			huh.NewSelect[string]().
				Title("Status").
				Options(huh.NewOptions(app.Statuses...)...).
				Value(&vals.status),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Release month").
				Options(optionalOptions(app.Months)...).
				Value(&vals.month),
			huh.NewSelect[string]().
				Title("Release day").
				Options(optionalOptions(app.Days())...).
				Value(&vals.day),
			huh.NewSelect[string]().
				Title("Release year").
				Options(optionalOptions(app.Years())...).
				Value(&vals.year),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Director").
				Value(&vals.director),
			huh.NewText().
				Title("Description").
				Value(&vals.description),
			huh.NewInput().
				Title("Rating (0-10, empty for none)").
				Value(&vals.rating).
				Validate(validateRating),
			huh.NewInput().
				Title("Cover image path").
				Value(&vals.imagePath),
		),
	)
}

func newDeleteConfirm(title string, value *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete %q?", title)).
				Affirmative("Delete").
				Negative("Keep").
				Value(value),
		),
	)
}

// optionalOptions prepends an empty choice so the field can stay unset.
func optionalOptions(values []string) []huh.Option[string] {
	options := make([]huh.Option[string], 0, len(values)+1)
	options = append(options, huh.NewOption("(none)", ""))
	for _, value := range values {
		options = append(options, huh.NewOption(value, value))
	}
	return options
}

func requireText(field string) func(string) error {
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validateRating(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	rating, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("rating must be a number")
	}
	if rating < 0 || rating > 10 {
		return fmt.Errorf("rating must be between 0 and 10")
	}
	return nil
}

func itemFromValues(vals *formValues, id int64) (*storage.MediaItem, error) {
	item := &storage.MediaItem{
		ID:          id,
		Title:       strings.TrimSpace(vals.title),
		MediaType:   vals.mediaType,
		Genre:       vals.genre,
		ReleaseDate: composeReleaseDate(vals.month, vals.day, vals.year),
		Director:    strings.TrimSpace(vals.director),
		Description: strings.TrimSpace(vals.description),
		Status:      vals.status,
		ImagePath:   strings.TrimSpace(vals.imagePath),
	}

	if rating := strings.TrimSpace(vals.rating); rating != "" {
		parsed, err := strconv.ParseFloat(rating, 64)
		if err != nil {
			return nil, fmt.Errorf("rating must be a number")
		}
		item.Rating = &parsed
	}
	return item, nil
}

func valuesFromItem(item storage.MediaItem) *formValues {
	month, day, year := splitReleaseDate(item.ReleaseDate)
	vals := &formValues{
		title:       item.Title,
		mediaType:   item.MediaType,
		genre:       item.Genre,
		month:       month,
		day:         day,
		year:        year,
		director:    item.Director,
		description: item.Description,
		status:      item.Status,
		imagePath:   item.ImagePath,
	}
	if item.Rating != nil {
		vals.rating = strconv.FormatFloat(*item.Rating, 'f', -1, 64)
	}
	return vals
}

// composeReleaseDate renders "{Month} {day}, {year}". All three parts
// are needed; anything less leaves the date unset.
func composeReleaseDate(month, day, year string) string {
	if month == "" || day == "" || year == "" {
		return ""
	}
	return fmt.Sprintf("%s %s, %s", month, day, year)
}

// splitReleaseDate undoes composeReleaseDate for the edit form. Text
// that does not match the pattern leaves all parts empty.
func splitReleaseDate(value string) (month, day, year string) {
	fields := strings.Fields(strings.ReplaceAll(value, ",", " "))
	if len(fields) != 3 {
		return "", "", ""
	}
	return fields[0], fields[1], fields[2]
}
