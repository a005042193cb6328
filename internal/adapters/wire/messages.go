// Package wire implements the MASSim-style socket protocol (spec.md §6):
// NUL-terminated XML messages over TCP. Outbound action writes are gated by
// a token-bucket limiter, the same defensive idiom the teacher applies to
// its outbound HTTP client in internal/adapters/api.
package wire

import "encoding/xml"

// AuthRequest authenticates one agent connection.
type AuthRequest struct {
	XMLName  xml.Name `xml:"message"`
	Type     string   `xml:"type,attr"`
	Username string   `xml:"auth-request>username"`
	Password string   `xml:"auth-request>password"`
}

// AuthResponse is the server's reply to AuthRequest.
type AuthResponse struct {
	XMLName xml.Name `xml:"message"`
	Type    string   `xml:"type,attr"`
	Result  string   `xml:"auth-response>result,attr"`
}

// SimStart announces a new match and carries the static world description.
type SimStart struct {
	XMLName xml.Name        `xml:"message"`
	Type    string          `xml:"type,attr"`
	Sim     SimulationData  `xml:"simulation"`
}

// SimulationData is the static, once-per-match payload.
type SimulationData struct {
	ID          string       `xml:"id,attr"`
	Team        string       `xml:"team,attr"`
	SteamCount  int32        `xml:"steps,attr"`
	SeedCapital int32        `xml:"seedCapital,attr"`
	Roles       []RoleXML    `xml:"role"`
	Items       []ItemXML    `xml:"item"`
}

// RoleXML is one agent archetype's capabilities on the wire.
type RoleXML struct {
	Name       string   `xml:"name,attr"`
	Speed      int32    `xml:"speed,attr"`
	BatteryMax int32    `xml:"batteryMax,attr"`
	LoadMax    int32    `xml:"loadMax,attr"`
	Tools      []string `xml:"tool"`
}

// ItemXML is one item definition on the wire.
type ItemXML struct {
	Name      string       `xml:"name,attr"`
	Volume    int32        `xml:"volume,attr"`
	Assembled bool         `xml:"assembled,attr"`
	Consumed  []AmountXML  `xml:"item"`
	Tools     []string     `xml:"tool"`
}

// AmountXML is a named quantity, used for item recipes and shop/storage
// listings.
type AmountXML struct {
	Name   string `xml:"name,attr"`
	Amount int32  `xml:"amount,attr"`
}

// RequestAction is the per-step, per-agent perception message.
type RequestAction struct {
	XMLName  xml.Name    `xml:"message"`
	Type     string      `xml:"type,attr"`
	ID       string      `xml:"request-action>id,attr"`
	Deadline int64       `xml:"request-action>deadline,attr"`
	Percept  PerceptXML  `xml:"request-action>perception"`
}

// PerceptXML is the wire shape of one agent's team-visible snapshot.
type PerceptXML struct {
	SimulationStep int32          `xml:"step,attr"`
	TeamMoney      int32          `xml:"money,attr"`
	Self           SelfXML        `xml:"self"`
	Charging       []FacilityXML  `xml:"chargingStation"`
	Dumps          []FacilityXML  `xml:"dump"`
	Shops          []ShopXML      `xml:"shop"`
	Storages       []StorageXML   `xml:"storage"`
	Workshops      []FacilityXML  `xml:"workshop"`
	Resources      []FacilityXML  `xml:"resourceNode"`
	Entities       []EntityXML    `xml:"entity"`
	Jobs           []JobXML       `xml:"job"`
	Auctions       []AuctionXML   `xml:"auction"`
	Missions       []MissionXML   `xml:"mission"`
	Posteds        []JobXML       `xml:"posted"`
}

// FacilityXML is a generic facility with just an id and a position.
type FacilityXML struct {
	Name string  `xml:"name,attr"`
	Lat  float64 `xml:"lat,attr"`
	Lon  float64 `xml:"lon,attr"`
}

// ShopXML adds a restock timer and its offer to FacilityXML.
type ShopXML struct {
	FacilityXML
	Restock int32       `xml:"restock,attr"`
	Items   []AmountCostXML `xml:"item"`
}

// AmountCostXML is one shop offer line.
type AmountCostXML struct {
	Name   string `xml:"name,attr"`
	Amount int32  `xml:"amount,attr"`
	Cost   int32  `xml:"cost,attr"`
}

// StorageXML adds capacity and contents to FacilityXML.
type StorageXML struct {
	FacilityXML
	TotalCapacity int32           `xml:"totalCapacity,attr"`
	UsedCapacity  int32           `xml:"usedCapacity,attr"`
	Items         []DeliveredXML  `xml:"item"`
}

// DeliveredXML is one storage content line.
type DeliveredXML struct {
	Name      string `xml:"name,attr"`
	Amount    int32  `xml:"amount,attr"`
	Delivered int32  `xml:"delivered,attr"`
}

// EntityXML is an observed unit (opponent or teammate) on the wire.
type EntityXML struct {
	Name string  `xml:"name,attr"`
	Team string  `xml:"team,attr"`
	Lat  float64 `xml:"lat,attr"`
	Lon  float64 `xml:"lon,attr"`
}

// JobXML is the shared shape for jobs/posteds.
type JobXML struct {
	ID        string      `xml:"id,attr"`
	Storage   string      `xml:"storage,attr"`
	Begin     int32       `xml:"begin,attr"`
	End       int32       `xml:"end,attr"`
	Reward    int32       `xml:"reward,attr"`
	Required  []AmountXML `xml:"required"`
}

// AuctionXML extends JobXML with bidding fields.
type AuctionXML struct {
	JobXML
	Fine        int32 `xml:"fine,attr"`
	MaxBid      int32 `xml:"maxBid,attr"`
	AuctionTime int32 `xml:"auctionTime,attr"`
}

// MissionXML extends JobXML with a fine.
type MissionXML struct {
	JobXML
	Fine int32 `xml:"fine,attr"`
}

// SelfXML is the wire shape of the requesting agent's own observable state.
type SelfXML struct {
	Name       string      `xml:"name,attr"`
	Lat        float64     `xml:"lat,attr"`
	Lon        float64     `xml:"lon,attr"`
	Charge     int32       `xml:"charge,attr"`
	Load       int32       `xml:"load,attr"`
	FacilityIn string      `xml:"facility,attr"`
	LastAction string      `xml:"lastAction,attr"`
	LastResult string      `xml:"lastActionResult,attr"`
	Items      []AmountXML `xml:"item"`
}

// ActionMessage is the outbound per-agent submission.
type ActionMessage struct {
	XMLName xml.Name    `xml:"message"`
	Type    string      `xml:"type,attr"`
	ID      string      `xml:"action>id,attr"`
	Kind    string      `xml:"action>type,attr"`
	Params  []ParamXML  `xml:"action>param"`
}

// ParamXML is one ordered action parameter.
type ParamXML struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// SimEnd closes out a match.
type SimEnd struct {
	XMLName xml.Name `xml:"message"`
	Type    string   `xml:"type,attr"`
	Ranking int32    `xml:"sim-end>ranking,attr"`
	Score   int32    `xml:"sim-end>score,attr"`
}

// Bye is the server's final goodbye.
type Bye struct {
	XMLName xml.Name `xml:"message"`
	Type    string   `xml:"type,attr"`
}
