package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"valid simple", "Summer Dress", true},
		{"valid with digits and hyphen", "T-Shirt 2024", true},
		{"valid unicode letters", "Áo sơ mi nam", true},
		{"valid at min length", "abcde", true},
		{"valid at max length", strings.Repeat("a", 100), true},
		{"empty", "", false},
		{"whitespace only", "   ", false},
		{"too short", "abcd", false},
		{"too short after trim", "  abcd  ", false},
		{"too long", strings.Repeat("a", 101), false},
		{"special characters", "Shirt @ Home", false},
		{"underscore", "summer_dress", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := Name(tt.input)
			if tt.valid {
				assert.Empty(t, msg)
			} else {
				assert.NotEmpty(t, msg)
			}
		})
	}
}

func TestDescription(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"plain text", "A perfectly fine description", true},
		{"markup stripped before counting", "<p><strong>Comfortable</strong> cotton shirt</p>", true},
		{"entities decoded", "Ten &amp; chars", true},
		{"empty", "", false},
		{"markup only", "<p></p><br/>", false},
		{"visible text too short", "<p>short</p>", false},
		{"long markup short text", "<div class='" + strings.Repeat("x", 500) + "'>short</div>", false},
		{"visible text too long", strings.Repeat("a", 10001), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := Description(tt.input)
			if tt.valid {
				assert.Empty(t, msg)
			} else {
				assert.NotEmpty(t, msg)
			}
		})
	}
}

func TestExtractText(t *testing.T) {
	assert.Equal(t, "bold and plain", ExtractText("<p><b>bold</b> and plain</p>"))
	assert.Equal(t, "a & b", ExtractText("a &amp; b"))
	assert.Equal(t, "", ExtractText("<p><br/></p>"))
	// A greater-than sign in the visible text is not tag markup.
	assert.Equal(t, "size > 40", ExtractText("size > 40"))
	assert.Equal(t, "size > 40", ExtractText("<p>size > 40</p>"))
}

func TestImages(t *testing.T) {
	// Create mode requires at least one staged image.
	assert.NotEmpty(t, Images(0, 0, 0, false))
	assert.Empty(t, Images(0, 1, 0, false))

	// Edit mode counts kept existing images toward the total.
	assert.Empty(t, Images(2, 0, 1, true))
	assert.NotEmpty(t, Images(0, 0, 0, true))

	// Main index must land inside the combined set.
	assert.Empty(t, Images(1, 2, 2, false))
	assert.NotEmpty(t, Images(1, 2, 3, false))
	assert.NotEmpty(t, Images(1, 2, -1, false))
}

func TestPrice(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"at lower bound", "1000", true},
		{"at upper bound", "1000000000", true},
		{"decimal value", "19999.50", true},
		{"below lower bound", "999", false},
		{"above upper bound", "1000000001", false},
		{"not a number", "abc", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := Price(tt.input)
			if tt.valid {
				assert.Empty(t, msg)
			} else {
				assert.NotEmpty(t, msg)
			}
		})
	}
}

func TestStock(t *testing.T) {
	assert.Empty(t, Stock("0"))
	assert.Empty(t, Stock("1000"))
	assert.Empty(t, Stock(" 42 "))
	assert.NotEmpty(t, Stock("-1"))
	assert.NotEmpty(t, Stock("1001"))
	assert.NotEmpty(t, Stock("12.5"))
	assert.NotEmpty(t, Stock(""))
}

func TestVariantImage(t *testing.T) {
	// Create mode: only a freshly staged file counts.
	assert.Empty(t, VariantImage(false, true, false))
	assert.NotEmpty(t, VariantImage(true, false, false))

	// Edit mode: keeping the existing image is enough.
	assert.Empty(t, VariantImage(true, false, true))
	assert.Empty(t, VariantImage(false, true, true))
	assert.NotEmpty(t, VariantImage(false, false, true))
}

func TestProductAggregate(t *testing.T) {
	valid := ProductForm{
		Name:        "Summer Dress",
		CategoryID:  "cat-1",
		Description: "A light dress for warm days",
		NewImages:   2,
		MainIndex:   1,
	}
	assert.Empty(t, Product(valid))

	invalid := ProductForm{
		Name:        "ab",
		Description: "<p></p>",
	}
	errs := Product(invalid)
	assert.Contains(t, errs, "name")
	assert.Contains(t, errs, "categoryId")
	assert.Contains(t, errs, "description")
	assert.Contains(t, errs, "images")
}

func TestVariantAggregate(t *testing.T) {
	valid := VariantForm{
		ProductID:     "prod-1",
		ColorID:       "color-1",
		SizeID:        "size-1",
		Price:         "150000",
		StockQuantity: "10",
		HasNew:        true,
	}
	assert.Empty(t, Variant(valid))

	// Edit mode skips the immutable selections.
	edit := VariantForm{
		Price:         "150000",
		StockQuantity: "10",
		HasExisting:   true,
		EditMode:      true,
	}
	assert.Empty(t, Variant(edit))

	invalid := VariantForm{Price: "abc", StockQuantity: "-1"}
	errs := Variant(invalid)
	assert.Contains(t, errs, "productId")
	assert.Contains(t, errs, "colorId")
	assert.Contains(t, errs, "sizeId")
	assert.Contains(t, errs, "price")
	assert.Contains(t, errs, "stockQuantity")
	assert.Contains(t, errs, "image")
}
