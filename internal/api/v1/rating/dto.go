package rating

type SubmitRatingRequest struct {
	SessionID   uint   `json:"sessionId" binding:"required"`
	RatedID     uint   `json:"ratedId" binding:"required"`
	Quality     int    `json:"quality" binding:"required,min=1,max=5"`
	Clarity     int    `json:"clarity" binding:"required,min=1,max=5"`
	Punctuality int    `json:"punctuality" binding:"required,min=1,max=5"`
	Overall     int    `json:"overall" binding:"required,min=1,max=5"`
	Comment     string `json:"comment"`
}
