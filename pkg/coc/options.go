package coc

// Choice lists offered by the web form and printed as checkbox groups on the
// custody form. Order is display order.
var (
	TimeZones        = []string{"PT", "MT", "CT", "ET", "AK"}
	DataDeliverables = []string{"Level I (Std)", "Level II", "Level III", "Level IV", "Other"}
	RushOptions      = []string{"Standard (5-10 Day)", "Same Day", "1 Day", "2 Day", "3 Day", "4 Day", "5 Day"}
	DeliveryMethods  = []string{"FedEx", "UPS", "In-Person", "Courier", "Other"}
	CompGrabOptions  = []string{"Grab", "Comp"}
	ResidualClUnits  = []string{"mg/L", "ppm"}
	YesNo            = []string{"Yes", "No"}
)

// Defaults applied to a blank submission.
const (
	DefaultTimeZone    = "PT"
	DefaultRush        = "Standard (5-10 Day)"
	DefaultDeliverable = "Level I (Std)"
	DefaultMatrix      = "DW"
)
