package models

import "encoding/json"

// MenuResponse mirrors the parts of the Swiggy menu payload we read.
// Every level is optional; absent fields decode to their zero value.
// A card, item or offer tag whose shape does not match decodes as empty
// instead of failing the whole response.
type MenuResponse struct {
	Data *MenuData `json:"data"`
}

type MenuData struct {
	Cards []MenuCard `json:"cards"`
}

type MenuCard struct {
	GroupedCard *GroupedCard `json:"groupedCard"`
}

func (c *MenuCard) UnmarshalJSON(data []byte) error {
	type plain MenuCard
	var v plain
	if json.Unmarshal(data, &v) != nil {
		*c = MenuCard{}
		return nil
	}
	*c = MenuCard(v)
	return nil
}

type GroupedCard struct {
	CardGroupMap *CardGroupMap `json:"cardGroupMap"`
}

type CardGroupMap struct {
	Regular *CardGroup `json:"REGULAR"`
}

type CardGroup struct {
	Cards []SectionCard `json:"cards"`
}

type SectionCard struct {
	Card *SectionCardWrapper `json:"card"`
}

func (c *SectionCard) UnmarshalJSON(data []byte) error {
	type plain SectionCard
	var v plain
	if json.Unmarshal(data, &v) != nil {
		*c = SectionCard{}
		return nil
	}
	*c = SectionCard(v)
	return nil
}

type SectionCardWrapper struct {
	Card *SectionContent `json:"card"`
}

// SectionContent holds either a direct item list or categories of items.
type SectionContent struct {
	ItemCards  []ItemCard     `json:"itemCards,omitempty"`
	Categories []MenuCategory `json:"categories,omitempty"`
}

type MenuCategory struct {
	ItemCards []ItemCard `json:"itemCards,omitempty"`
}

type ItemCard struct {
	Card *ItemCardWrapper `json:"card"`
}

func (c *ItemCard) UnmarshalJSON(data []byte) error {
	type plain ItemCard
	var v plain
	if json.Unmarshal(data, &v) != nil {
		*c = ItemCard{}
		return nil
	}
	*c = ItemCard(v)
	return nil
}

type ItemCardWrapper struct {
	Info *ItemInfo `json:"info"`
}

// ItemInfo prices are in the smallest currency unit (paise).
type ItemInfo struct {
	Name         string     `json:"name"`
	DefaultPrice *float64   `json:"defaultPrice,omitempty"`
	Price        *float64   `json:"price,omitempty"`
	FinalPrice   *float64   `json:"finalPrice,omitempty"`
	OfferTags    []OfferTag `json:"offerTags,omitempty"`
}

type OfferTag struct {
	Title string `json:"title"`
}

// UnmarshalJSON keeps a tag with an unexpected shape as an empty tag so the item itself survives.
func (t *OfferTag) UnmarshalJSON(data []byte) error {
	type plain OfferTag
	var v plain
	if json.Unmarshal(data, &v) != nil {
		*t = OfferTag{}
		return nil
	}
	*t = OfferTag(v)
	return nil
}
