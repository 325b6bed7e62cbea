// Package validation holds the pure field validators for product and variant
// forms. Every validator is synchronous and side-effect free so the same
// functions can back both per-keystroke checks and the aggregate pre-submit
// check. A validator returns "" for a valid value and a user-facing message
// otherwise; aggregate validation returns a field→message map whose emptiness
// means the form is submittable.
package validation

import (
	"html"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const (
	NameMinLen        = 5
	NameMaxLen        = 100
	DescriptionMinLen = 10
	DescriptionMaxLen = 10000
	StockMax          = 1000
)

var (
	priceMin = decimal.NewFromInt(1000)
	priceMax = decimal.NewFromInt(1_000_000_000)
)

// Name checks the product name: required, trimmed length within
// [NameMinLen, NameMaxLen], and only Unicode letters, digits, spaces and
// hyphens.
func Name(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return "Name is required"
	}
	length := utf8.RuneCountInString(trimmed)
	if length < NameMinLen || length > NameMaxLen {
		return "Name must be between 5 and 100 characters"
	}
	for _, r := range trimmed {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != ' ' && r != '-' {
			return "Name may only contain letters, numbers, spaces and hyphens"
		}
	}
	return ""
}

// Category checks that a category has been selected.
func Category(id string) string {
	if strings.TrimSpace(id) == "" {
		return "Category is required"
	}
	return ""
}

// Description checks the extracted plain text of the rich-text markup. The
// markup itself may be arbitrarily long; only the visible text is bounded.
func Description(markup string) string {
	text := strings.TrimSpace(ExtractText(markup))
	if text == "" {
		return "Description is required"
	}
	length := utf8.RuneCountInString(text)
	if length < DescriptionMinLen || length > DescriptionMaxLen {
		return "Description must be between 10 and 10000 characters"
	}
	return ""
}

// ExtractText strips markup tags and decodes entities, returning the plain
// text a reader would see.
func ExtractText(markup string) string {
	var b strings.Builder
	b.Grow(len(markup))
	inTag := false
	for _, r := range markup {
		switch {
		case r == '<':
			inTag = true
		case r == '>' && inTag:
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return html.UnescapeString(b.String())
}

// Images checks the combined image set of a product form. mainIndex is
// 0-based over the existing images followed by the newly staged ones.
func Images(existingCount, newCount, mainIndex int, editMode bool) string {
	total := existingCount + newCount
	if total == 0 {
		if editMode {
			return "Keep or add at least one image"
		}
		return "At least one image is required"
	}
	if mainIndex < 0 || mainIndex >= total {
		return "Main image selection is out of range"
	}
	return ""
}

// Price checks a variant price: numeric and within [1000, 1000000000].
func Price(raw string) string {
	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return "Price must be a number"
	}
	if v.LessThan(priceMin) || v.GreaterThan(priceMax) {
		return "Price must be between 1,000 and 1,000,000,000"
	}
	return ""
}

// Stock checks a variant stock quantity: a whole number within [0, 1000].
func Stock(raw string) string {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return "Stock must be a whole number"
	}
	if n < 0 || n > StockMax {
		return "Stock must be between 0 and 1000"
	}
	return ""
}

// VariantImage checks image presence for a variant form. A new variant needs
// a staged file; an edit may keep the existing image instead.
func VariantImage(hasExisting, hasNew, editMode bool) string {
	if editMode {
		if !hasExisting && !hasNew {
			return "Variant image is required"
		}
		return ""
	}
	if !hasNew {
		return "Variant image is required"
	}
	return ""
}

// ProductForm is the submittable product form state.
type ProductForm struct {
	Name           string
	CategoryID     string
	Description    string
	ExistingImages int
	NewImages      int
	MainIndex      int
	EditMode       bool
}

// Product runs the aggregate product validation. An empty map means the form
// is submittable.
func Product(f ProductForm) map[string]string {
	errs := make(map[string]string)
	if msg := Name(f.Name); msg != "" {
		errs["name"] = msg
	}
	if msg := Category(f.CategoryID); msg != "" {
		errs["categoryId"] = msg
	}
	if msg := Description(f.Description); msg != "" {
		errs["description"] = msg
	}
	if msg := Images(f.ExistingImages, f.NewImages, f.MainIndex, f.EditMode); msg != "" {
		errs["images"] = msg
	}
	return errs
}

// VariantForm is the submittable variant form state.
type VariantForm struct {
	ProductID     string
	ColorID       string
	SizeID        string
	Price         string
	StockQuantity string
	HasExisting   bool
	HasNew        bool
	EditMode      bool
}

// Variant runs the aggregate variant validation. Color and size are only
// required on create; edit mode keeps them immutable.
func Variant(f VariantForm) map[string]string {
	errs := make(map[string]string)
	if !f.EditMode {
		if strings.TrimSpace(f.ProductID) == "" {
			errs["productId"] = "Product is required"
		}
		if strings.TrimSpace(f.ColorID) == "" {
			errs["colorId"] = "Color is required"
		}
		if strings.TrimSpace(f.SizeID) == "" {
			errs["sizeId"] = "Size is required"
		}
	}
	if msg := Price(f.Price); msg != "" {
		errs["price"] = msg
	}
	if msg := Stock(f.StockQuantity); msg != "" {
		errs["stockQuantity"] = msg
	}
	if msg := VariantImage(f.HasExisting, f.HasNew, f.EditMode); msg != "" {
		errs["image"] = msg
	}
	return errs
}
