package domain

// Domain contains core models shared by the catalog, loader and API.

// PresentationVariant selects a rendering style. It is a display concern, not identity.
type PresentationVariant string

const (
	VariantStandard   PresentationVariant = "standard"
	VariantHero       PresentationVariant = "hero"
	VariantMini       PresentationVariant = "mini"
	VariantHorizontal PresentationVariant = "horizontal"
)

// Article is a normalized blog post. Values are treated as immutable once loaded.
type Article struct {
	ID       string              `json:"id" yaml:"id" validate:"required"`
	Title    string              `json:"title" yaml:"title" validate:"required"`
	Excerpt  string              `json:"excerpt" yaml:"excerpt"`
	Content  string              `json:"content" yaml:"content"`
	ImageURL string              `json:"imageUrl" yaml:"image_url" validate:"omitempty,url"`
	Category Category            `json:"category" yaml:"category" validate:"required"`
	Tags     []string            `json:"tags,omitempty" yaml:"tags"`
	Author   string              `json:"author" yaml:"author"`
	Date     string              `json:"date" yaml:"date"`
	URL      string              `json:"url,omitempty" yaml:"url" validate:"omitempty,url"`
	Featured bool                `json:"featured,omitempty" yaml:"featured"`
	Variant  PresentationVariant `json:"presentationVariant,omitempty" yaml:"variant" validate:"omitempty,oneof=standard hero mini horizontal"`
	Deal     *DealData           `json:"dealData,omitempty" yaml:"deal"`
}

// DealData links an article to an external offer.
type DealData struct {
	Link     string `json:"link" yaml:"link" validate:"omitempty,url"`
	OldPrice string `json:"oldPrice,omitempty" yaml:"old_price"`
	NewPrice string `json:"newPrice,omitempty" yaml:"new_price"`
}

// Deal is a product offer. Prices are display strings; no arithmetic is done on them.
type Deal struct {
	ID       string `json:"id" yaml:"id" validate:"required"`
	Product  string `json:"product" yaml:"product" validate:"required"`
	OldPrice string `json:"oldPrice" yaml:"old_price"`
	NewPrice string `json:"newPrice" yaml:"new_price"`
	Link     string `json:"link" yaml:"link" validate:"omitempty,url"`
	ImageURL string `json:"imageUrl" yaml:"image_url" validate:"omitempty,url"`
}

// Clone returns a copy that shares no slices or pointers with a.
func (a Article) Clone() Article {
	out := a
	if a.Tags != nil {
		out.Tags = append([]string(nil), a.Tags...)
	}
	if a.Deal != nil {
		d := *a.Deal
		out.Deal = &d
	}
	return out
}

// WithVariant returns a copy of a presented with the given variant.
func (a Article) WithVariant(v PresentationVariant) Article {
	out := a.Clone()
	out.Variant = v
	return out
}
