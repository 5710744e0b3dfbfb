package models

import (
	"encoding/json"
	"fmt"
)

// Title holds the five search targets of a product.
type Title struct {
	T1 string `json:"t1" bson:"t1"`
	T2 string `json:"t2" bson:"t2"`
	T3 string `json:"t3" bson:"t3"`
	T4 string `json:"t4" bson:"t4"`
	T5 string `json:"t5" bson:"t5"`
}

// Text is stored and served as a string but also accepts a JSON number on input,
// since clients send prices and years both ways.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected a string or number, got %s", data)
	}
	*t = Text(n.String())
	return nil
}

type Product struct {
	ID    uint   `gorm:"primaryKey;autoIncrement:false" json:"productID" bson:"_id"`
	Name  string `gorm:"not null" json:"name" bson:"name"`
	Title Title  `gorm:"embedded;embeddedPrefix:title_" json:"title" bson:"title"`
	Price Text   `json:"price" bson:"price"`
	Image string `json:"image" bson:"image"`
	Model string `json:"model" bson:"model"`
	Year  Text   `json:"year" bson:"year"`
	Type  string `json:"type" bson:"type"`
}

// TitlePatch carries the title fields present in an update request.
type TitlePatch struct {
	T1 *string `json:"t1"`
	T2 *string `json:"t2"`
	T3 *string `json:"t3"`
	T4 *string `json:"t4"`
	T5 *string `json:"t5"`
}

// ProductPatch is a partial product update; nil fields are left untouched.
type ProductPatch struct {
	Name  *string     `json:"name"`
	Title *TitlePatch `json:"title"`
	Price *Text       `json:"price"`
	Image *string     `json:"image"`
	Model *string     `json:"model"`
	Year  *Text       `json:"year"`
	Type  *string     `json:"type"`
}

// Apply merges the patch into p.
func (patch ProductPatch) Apply(p *Product) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&p.Name, patch.Name)
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	set(&p.Image, patch.Image)
	set(&p.Model, patch.Model)
	if patch.Year != nil {
		p.Year = *patch.Year
	}
	set(&p.Type, patch.Type)
	if patch.Title != nil {
		set(&p.Title.T1, patch.Title.T1)
		set(&p.Title.T2, patch.Title.T2)
		set(&p.Title.T3, patch.Title.T3)
		set(&p.Title.T4, patch.Title.T4)
		set(&p.Title.T5, patch.Title.T5)
	}
}

// Empty reports whether the patch changes nothing.
func (patch ProductPatch) Empty() bool {
	return patch.Name == nil && patch.Title == nil && patch.Price == nil && patch.Image == nil &&
		patch.Model == nil && patch.Year == nil && patch.Type == nil
}

// SortField maps a public sort key to its relational column and document field.
type SortField struct {
	Column string
	Field  string
}

// ProductSortFields lists the keys accepted by the catalog's sort parameter.
var ProductSortFields = map[string]SortField{
	"productID": {Column: "id", Field: "_id"},
	"name":      {Column: "name", Field: "name"},
	"price":     {Column: "price", Field: "price"},
	"model":     {Column: "model", Field: "model"},
	"year":      {Column: "year", Field: "year"},
	"type":      {Column: "type", Field: "type"},
	"title.t1":  {Column: "title_t1", Field: "title.t1"},
	"title.t2":  {Column: "title_t2", Field: "title.t2"},
	"title.t3":  {Column: "title_t3", Field: "title.t3"},
	"title.t4":  {Column: "title_t4", Field: "title.t4"},
	"title.t5":  {Column: "title_t5", Field: "title.t5"},
}
