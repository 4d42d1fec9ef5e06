package domain

// DefaultStatistique is the value new profiles start with. The field is an
// opaque upstream score; it is passed through unchanged.
const DefaultStatistique = 100

type User struct {
	UID     string `json:"uid"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Age     int    `json:"age,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email"`
	// The upstream API overloads this field with the birthdate for social
	// sign-ins. Stored and forwarded as-is.
	Password    string  `json:"password,omitempty"`
	IsSeller    bool    `json:"isSeller"`
	Statistique int     `json:"statistique"`
	FastFoodID  string  `json:"fastFoodId,omitempty"`
	PushToken   string  `json:"pushToken,omitempty"`
	Orders      []Order `json:"commandes,omitempty"`
}
