package domain

// Barbershop owns its services and barbers through barberia_id.
type Barbershop struct {
	ID          int64  `json:"id" gorm:"column:id;primaryKey"`
	Name        string `json:"name" gorm:"column:nombre;size:150;not null"`
	Address     string `json:"address" gorm:"column:direccion;type:text"`
	LogoURL     string `json:"logo,omitempty" gorm:"column:logo;type:text"`
	OpeningTime string `json:"opening_time" gorm:"column:hora_apertura;size:5"`
	ClosingTime string `json:"closing_time" gorm:"column:hora_cierre;size:5"`
	WorkingDays string `json:"working_days" gorm:"column:dias_laborales;size:120"`

	Services []Service `json:"services,omitempty" gorm:"foreignKey:BarbershopID"`
	Barbers  []Barber  `json:"barbers,omitempty" gorm:"foreignKey:BarbershopID"`
}

func (Barbershop) TableName() string { return "barberias" }

// Barber is the extension row of a user with the barber role.
type Barber struct {
	ID            int64   `json:"id" gorm:"column:id;primaryKey"`
	UserID        int64   `json:"user_id" gorm:"column:usuario_id;uniqueIndex;not null"`
	BarbershopID  int64   `json:"barbershop_id" gorm:"column:barberia_id;index;not null"`
	Specialty     string  `json:"specialty,omitempty" gorm:"column:especialidad;size:150"`
	Description   string  `json:"description,omitempty" gorm:"column:descripcion;type:text"`
	AverageRating float64 `json:"average_rating" gorm:"column:calificacion_promedio;default:0"`
	Active        bool    `json:"active" gorm:"column:activo;not null"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (Barber) TableName() string { return "barberos" }

type Service struct {
	ID                int64   `json:"id" gorm:"column:id;primaryKey"`
	BarbershopID      int64   `json:"barbershop_id" gorm:"column:barberia_id;index;not null"`
	Name              string  `json:"name" gorm:"column:nombre;size:150;not null"`
	Description       string  `json:"description,omitempty" gorm:"column:descripcion;type:text"`
	Price             float64 `json:"price" gorm:"column:precio;not null"`
	EstimatedDuration int     `json:"estimated_duration" gorm:"column:duracion_estimada"`
	Active            bool    `json:"active" gorm:"column:activo;not null"`
}

func (Service) TableName() string { return "servicios" }

type Hairstyle struct {
	ID          int64  `json:"id" gorm:"column:id;primaryKey"`
	Name        string `json:"name" gorm:"column:nombre;size:150;not null"`
	Description string `json:"description,omitempty" gorm:"column:descripcion;type:text"`
	PhotoURL    string `json:"photo_url,omitempty" gorm:"column:foto_referencia;type:text"`
	Tags        string `json:"-" gorm:"column:tags;type:text"`

	// TagList is Tags decoded by the repository.
	TagList []string `json:"tags" gorm:"-"`
}

func (Hairstyle) TableName() string { return "peinados" }
