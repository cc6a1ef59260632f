// Package model defines the persisted models for the intake service.
//
// # Models
//
//   - Record: one extracted identity-field tuple
//
// # Database Schema
//
// A single table holds every record:
//
//   - person_data: id (auto-assigned), numele, prenumele, data_nasterii,
//     adresa, cnp
//
// Column names keep the Romanian field labels that the intake text uses.
package model
