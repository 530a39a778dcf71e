package cjdropshipping

// Request and response bodies of the CJ order API.

type createOrderRequest struct {
	OrderNum        string          `json:"orderNum"`
	ShippingMethod  string          `json:"shippingMethod"`
	ShippingAddress shippingAddress `json:"shippingAddress"`
	Products        []orderProduct  `json:"products"`
	Remark          string          `json:"remark,omitempty"`
}

type shippingAddress struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Apartment string `json:"apartment,omitempty"`
	City      string `json:"city"`
	State     string `json:"state"`
	ZipCode   string `json:"zipCode"`
	Country   string `json:"country"`
}

type orderProduct struct {
	ProductID     string  `json:"productId"`
	ProductSKU    string  `json:"productSku"`
	ProductNameEn string  `json:"productNameEn"`
	Quantity      int     `json:"quantity"`
	Price         float64 `json:"price"`
}

type createOrderResponse struct {
	Code    int    `json:"code"`
	Result  bool   `json:"result"`
	Message string `json:"message"`
	Data    struct {
		OrderID  string `json:"orderId"`
		OrderNum string `json:"orderNum"`
		Status   string `json:"status"`
	} `json:"data"`
}

type trackingRequest struct {
	OrderNum string `json:"orderNum"`
}

type trackingResponse struct {
	Code    int    `json:"code"`
	Result  bool   `json:"result"`
	Message string `json:"message"`
	Data    struct {
		OrderID        string `json:"orderId"`
		TrackingNumber string `json:"trackingNumber"`
		ShippingStatus string `json:"shippingStatus"`
		Carrier        string `json:"carrier"`
	} `json:"data"`
}
