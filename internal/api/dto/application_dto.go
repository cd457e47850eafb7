package dto

// ApplyForm is the text part of the multipart application form. The résumé
// arrives as the "resume" file field.
type ApplyForm struct {
	CoverLetter string `form:"cover_letter"`
}

// StatusForm is posted from the applicants table.
type StatusForm struct {
	Status string `form:"status"`
}
