// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema holds the table and column identifiers of the blog database.
//
// Repositories build SQL from these definitions so a rename touches one place.
// Column names follow the lowercase, no-separator convention of the migrations.
package schema
