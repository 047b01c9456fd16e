package domain

type SignupInput struct {
	Email           string `mapstructure:"email" validate:"required,email"`
	Username        string `mapstructure:"username" validate:"required"`
	Password        string `mapstructure:"password" validate:"required"`
	ConfirmPassword string `mapstructure:"confirmPassword"`
	Name            string `mapstructure:"name"`
	Description     string `mapstructure:"description" validate:"required"`
}

type LoginInput struct {
	Email    string `mapstructure:"email" validate:"required"`
	Password string `mapstructure:"password" validate:"required"`
}

type RoomInput struct {
	Title       string    `mapstructure:"title" validate:"required"`
	Description string    `mapstructure:"description" validate:"required"`
	Price       float64   `mapstructure:"price" validate:"required,gte=0"`
	Location    *Location `mapstructure:"location" validate:"required"`
}
