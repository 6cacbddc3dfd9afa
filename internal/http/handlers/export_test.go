package handlers

// Aliases exposing response types to the external handlers_test package.
type (
	GoogleVerifyResponse  = googleVerifyResponse
	UserDTO               = userDTO
	QuizDTO               = quizDTO
	BadgeDTO              = badgeDTO
	GenerateVideoResponse = generateVideoResponse
	VideoStatusResponse   = videoStatusResponse
	VideoDTO              = videoDTO
)
