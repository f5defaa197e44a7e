package mysql

const insertReviewSQL = `
INSERT INTO reviews
  (id, review, reviewer_name, reviewer_designation, reviewer_image)
VALUES
  (?, ?, ?, ?, ?)
`

// Column names are whitelisted in buildUpdate; only values are bound.
const updateReviewPrefix = "UPDATE reviews SET "

const deleteReviewSQL = `DELETE FROM reviews WHERE id = ?`

const existsReviewSQL = `SELECT 1 FROM reviews WHERE id = ?`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const selectReviewColumns = `
SELECT
  id,
  review,
  reviewer_name,
  reviewer_designation,
  reviewer_image
FROM reviews
`

// Insertion order is kept for List, matching the document store's natural order.
const listReviewsSQL = selectReviewColumns + `ORDER BY created_at, id`

const getReviewSQL = selectReviewColumns + `WHERE id = ?`
