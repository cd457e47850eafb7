package dto

// RegisterForm is posted by the registration page.
type RegisterForm struct {
	Name     string `form:"name"`
	Email    string `form:"email"`
	Password string `form:"password"`
	Role     string `form:"role"`
}

// LoginForm is posted by the login page.
type LoginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

// ExperienceForm updates a seeker's experience text.
type ExperienceForm struct {
	Experience string `form:"experience"`
}
