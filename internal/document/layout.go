// Package document turns a delivery note and its related records into a printable PDF.
package document

import (
	"strconv"

	"github.com/yukikurage/albaranes-api/internal/models"
)

const (
	Title            = "Albarán"
	SignatureCaption = "Firma del cliente"
	dateLayout       = "02/01/2006"
)

// Snapshot is the data a document is rendered from.
type Snapshot struct {
	Albaran models.Albaran
	Client  models.Client
	Project models.Project
	Owner   models.User
}

// Field is a labelled line in the document header.
type Field struct {
	Label string
	Value string
}

// LineItem is the single concept a delivery note records.
type LineItem struct {
	Name     string
	Quantity string
}

// String renders the concept line shown in documents and responses.
func (i LineItem) String() string {
	return i.Name + " – " + i.Quantity
}

// Layout is the ordered text content of a document. Equal snapshots give equal layouts.
type Layout struct {
	Title     string
	Meta      []Field
	Client    []Field
	Items     []LineItem
	Signature string
}

// Pages returns how many pages the layout prints on.
func (l Layout) Pages() int {
	if l.Signature != "" {
		return 2
	}
	return 1
}

// Concept builds the line item for a note: hours worked by the owner, or one unit of material.
func Concept(a models.Albaran, owner models.User) LineItem {
	if a.Format == models.FormatMaterial {
		name := a.Description
		if a.Material != nil && *a.Material != "" {
			name = *a.Material
		}
		return LineItem{Name: name, Quantity: "1 uds"}
	}

	name := owner.Name
	if name == "" {
		name = a.Description
	}
	var hours float64
	if a.Hours != nil {
		hours = *a.Hours
	}
	return LineItem{Name: name, Quantity: strconv.FormatFloat(hours, 'f', -1, 64) + " horas"}
}

// BuildLayout lays out s. The signature page is only included when signed is true.
func BuildLayout(s Snapshot, signed bool) Layout {
	layout := Layout{
		Title: Title,
		Meta: []Field{
			{Label: "Fecha", Value: s.Albaran.CreatedAt.Format(dateLayout)},
			{Label: "Fecha de trabajo", Value: s.Albaran.Workdate.Format(dateLayout)},
			{Label: "Proyecto", Value: s.Project.DisplayName()},
			{Label: "Descripción", Value: s.Albaran.Description},
			{Label: "Usuario", Value: s.Owner.Name},
			{Label: "Email", Value: s.Owner.Email},
		},
		Client: []Field{
			{Label: "Cliente", Value: s.Client.Name},
		},
		Items: []LineItem{Concept(s.Albaran, s.Owner)},
	}

	if s.Client.Address != "" {
		layout.Client = append(layout.Client, Field{Label: "Dirección", Value: s.Client.Address})
	}
	if s.Client.CIF != "" {
		layout.Client = append(layout.Client, Field{Label: "CIF", Value: s.Client.CIF})
	}
	if signed {
		layout.Signature = SignatureCaption
	}

	return layout
}
