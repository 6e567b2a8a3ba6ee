// Package models contains the GORM persistence models. Each model maps one
// table and converts to and from its domain type; domain packages never
// carry gorm tags.
package models
