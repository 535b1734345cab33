// Package domain defines the documents served by the foundry catalog site and
// the repository contracts used to persist them.
//
// The catalog is made of product categories (each carrying the subcategories
// shown in the category scroller), projects, leadership bios, certification
// and client logos, and contact form submissions. Every document validates its
// own payload shape so the API layer can reject malformed input before it
// reaches the store. Repository interfaces keep the package independent of the
// database technology.
package domain
