package manifest

import "encoding/json"

// MarketplaceConnector is the catalog listing object for a published
// connector, derived from its manifest.
type MarketplaceConnector struct {
	Name           string   `json:"name"`
	Slug           string   `json:"slug"`
	Description    string   `json:"description"`
	IconURL        string   `json:"icon_url"`
	ImageURL       string   `json:"image_url"`
	MarketplaceTag string   `json:"marketplace_tag"`
	ConnectorOwner string   `json:"connector_owner"`
	SupportContact string   `json:"support_contact"`
	Tags           []string `json:"tags"`
}

// MarketplaceObject builds the marketplace listing from a manifest. The
// image and icon URLs may be overridden; empty overrides fall back to the
// manifest's amd64 image and logo URL.
func MarketplaceObject(m *Manifest, imageURL, iconURL string) *MarketplaceConnector {
	if imageURL == "" {
		imageURL = m.Images.AMD64
	}
	if iconURL == "" {
		iconURL = m.URLs.Logo
	}
	return &MarketplaceConnector{
		Name:           m.Title,
		Slug:           m.Name,
		Description:    m.Description,
		IconURL:        iconURL,
		ImageURL:       imageURL,
		MarketplaceTag: m.Version,
		ConnectorOwner: m.Author.Name,
		SupportContact: m.Author.Email,
		Tags:           m.Tags,
	}
}

// MarshalIndent renders the listing object as indented JSON.
func (mc *MarketplaceConnector) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(mc, "", "  ")
}
