// Package core implements the network inventory domain: spreadsheet imports,
// filtered listings, exports, statistics and user accounts.
//
// Nothing in this package knows about HTTP. Handlers translate requests into
// calls on [Service] and map returned errors onto status codes.
//
// # Import pipeline
//
// An upload flows through four steps:
//
//  1. [OpenWorkbook] picks a reader by file extension (.xlsx/.xlsm via
//     excelize, .xls via extrame/xls).
//  2. [FindSheet] locates the inventory sheet, ignoring case.
//  3. [MapRows] converts raw rows into [NetworkRecord] values using the
//     positional table in [Columns]. The header row and blank rows are skipped.
//  4. [Service.Import] opens one transaction with [WithTx], inserts the
//     [ImportSession] first and then the records in fixed-size multi-row
//     INSERTs. Any failure rolls the whole upload back.
//
// Re-uploading a file is not detected; it creates a second session.
//
// # Queries
//
// Listings and exports share [RecordFilter]. Its predicate is built once by a
// [WhereBuilder] and the same clause and arguments feed both the page query
// and the count query, so totals always describe the rows being paged.
//
// # Error Handling
//
// Input problems are returned as [*ValidationError] and carry a support code.
// Everything else is a technical error; [MapError] turns it into a
// user-facing message and code while the detail goes to the log.
package core
