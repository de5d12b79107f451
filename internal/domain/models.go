package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// Jewel is a catalog product. Mutable fields are patched on update;
// IsSoldOut is derived: true exactly when Quantity is zero.
type Jewel struct {
	ID             primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Vendor         string             `json:"vendor" bson:"vendor"`
	Speed          float64            `json:"speed" bson:"speed"`
	Price          float64            `json:"price" bson:"price"`
	FakePrice      float64            `json:"fakeprice" bson:"fakeprice"`
	Quantity       int                `json:"quantity" bson:"quantity"`
	Img            string             `json:"img" bson:"img"`
	ImgHover       string             `json:"imghover" bson:"imghover"`
	ImgThird       string             `json:"imgthird" bson:"imgthird"`
	IsSoldOut      bool               `json:"isSoldOut" bson:"isSoldOut"`
	Type           string             `json:"type,omitempty" bson:"type,omitempty"`
	Designed       bool               `json:"designed" bson:"designed"`
	DescriptionENG string             `json:"descriptionENG" bson:"descriptionENG"`
	DescriptionHEB string             `json:"descriptionHEB" bson:"descriptionHEB"`
	Owner          string             `json:"owner,omitempty" bson:"owner,omitempty"`
}

// JewelFilter narrows a catalog query. Zero values mean "no constraint".
type JewelFilter struct {
	Txt      string
	MaxPrice float64
	Designed *bool
	Type     string
}

// Contact is the buyer's details attached to a checkout attempt.
type Contact struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// CartItem is one checkout line item. Never persisted locally.
type CartItem struct {
	Name     string  `json:"name,omitempty"`
	Vendor   string  `json:"vendor,omitempty"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Label is the human-readable name of the item for descriptions and
// receipts.
func (i CartItem) Label() string {
	if i.Vendor != "" {
		return i.Vendor
	}
	if i.Name != "" {
		return i.Name
	}
	return "item"
}

// User is a stored storefront account (the signup variant). The fixed
// admin identity is never persisted.
type User struct {
	ID       primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Username string             `json:"username" bson:"username"`
	Fullname string             `json:"fullname" bson:"fullname"`
	Hash     string             `json:"-" bson:"hash"`
}

// Identity is what a session token carries; it is reconstructed from
// the cookie on every request and never persisted server-side.
type Identity struct {
	ID       string `json:"_id"`
	Fullname string `json:"fullname"`
	IsAdmin  bool   `json:"isAdmin,omitempty"`
}
