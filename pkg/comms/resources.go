package comms

import "time"

// Account represents a communications account.
type Account struct {
	AccountID         string     `json:"AccountId"                  yaml:"account_id"`
	Name              string     `json:"Name"                       yaml:"name"`
	AwsAccountID      string     `json:"AwsAccountId,omitempty"     yaml:"aws_account_id,omitempty"`
	AccountType       string     `json:"AccountType,omitempty"      yaml:"account_type,omitempty"`
	AccountStatus     string     `json:"AccountStatus,omitempty"    yaml:"account_status,omitempty"`
	DefaultLicense    string     `json:"DefaultLicense,omitempty"   yaml:"default_license,omitempty"`
	SupportedLicenses []string   `json:"SupportedLicenses,omitempty" yaml:"supported_licenses,omitempty"`
	CreatedTimestamp  *time.Time `json:"CreatedTimestamp,omitempty" yaml:"created_timestamp,omitempty"`
}

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	CallOptions

	Name string `json:"Name" yaml:"name" validate:"required,min=1,max=100"`
}

// GetAccountRequest represents a request to fetch one account.
type GetAccountRequest struct {
	CallOptions

	AccountID string `json:"-" validate:"required"`
}

// ListAccountsRequest represents a request to list accounts.
type ListAccountsRequest struct {
	CallOptions
	ListParams

	Name      string `json:"-"`
	UserEmail string `json:"-" validate:"omitempty,email"`
}

// UpdateAccountRequest represents a request to rename an account or change its default license.
type UpdateAccountRequest struct {
	CallOptions

	AccountID      string `json:"-"                        validate:"required"`
	Name           string `json:"Name,omitempty"           validate:"omitempty,min=1,max=100"`
	DefaultLicense string `json:"DefaultLicense,omitempty" validate:"omitempty,oneof=Basic Plus Pro ProTrial"`
}

// DeleteAccountRequest represents a request to delete an account.
type DeleteAccountRequest struct {
	CallOptions

	AccountID string `json:"-" validate:"required"`
}

// User represents a user of an account.
type User struct {
	UserID                 string     `json:"UserId"                           yaml:"user_id"`
	AccountID              string     `json:"AccountId,omitempty"              yaml:"account_id,omitempty"`
	PrimaryEmail           string     `json:"PrimaryEmail,omitempty"           yaml:"primary_email,omitempty"`
	DisplayName            string     `json:"DisplayName,omitempty"            yaml:"display_name,omitempty"`
	LicenseType            string     `json:"LicenseType,omitempty"            yaml:"license_type,omitempty"`
	UserType               string     `json:"UserType,omitempty"               yaml:"user_type,omitempty"`
	UserRegistrationStatus string     `json:"UserRegistrationStatus,omitempty" yaml:"user_registration_status,omitempty"`
	UserInvitationStatus   string     `json:"UserInvitationStatus,omitempty"   yaml:"user_invitation_status,omitempty"`
	RegisteredOn           *time.Time `json:"RegisteredOn,omitempty"           yaml:"registered_on,omitempty"`
	InvitedOn              *time.Time `json:"InvitedOn,omitempty"              yaml:"invited_on,omitempty"`
}

// GetUserRequest represents a request to fetch one user.
type GetUserRequest struct {
	CallOptions

	AccountID string `json:"-" validate:"required"`
	UserID    string `json:"-" validate:"required"`
}

// ListUsersRequest represents a request to list the users of an account.
type ListUsersRequest struct {
	CallOptions
	ListParams

	AccountID string `json:"-" validate:"required"`
	UserEmail string `json:"-" validate:"omitempty,email"`
	UserType  string `json:"-" validate:"omitempty,oneof=PrivateUser SharedDevice"`
}

// UpdateUserRequest represents a request to change a user's license or type.
type UpdateUserRequest struct {
	CallOptions

	AccountID   string `json:"-"                     validate:"required"`
	UserID      string `json:"-"                     validate:"required"`
	LicenseType string `json:"LicenseType,omitempty" validate:"omitempty,oneof=Basic Plus Pro ProTrial"`
	UserType    string `json:"UserType,omitempty"    validate:"omitempty,oneof=PrivateUser SharedDevice"`
}

// Tag is a key/value pair attached to a resource.
type Tag struct {
	Key   string `json:"Key"   yaml:"key"   validate:"required,min=1,max=128"`
	Value string `json:"Value" yaml:"value" validate:"max=256"`
}

// MediaPlacement holds the media endpoints of a meeting.
type MediaPlacement struct {
	AudioHostURL     string `json:"AudioHostUrl,omitempty"     yaml:"audio_host_url,omitempty"`
	AudioFallbackURL string `json:"AudioFallbackUrl,omitempty" yaml:"audio_fallback_url,omitempty"`
	SignalingURL     string `json:"SignalingUrl,omitempty"     yaml:"signaling_url,omitempty"`
	TurnControlURL   string `json:"TurnControlUrl,omitempty"   yaml:"turn_control_url,omitempty"`
}

// Meeting represents a meeting session.
type Meeting struct {
	MeetingID         string          `json:"MeetingId"                   yaml:"meeting_id"`
	ExternalMeetingID string          `json:"ExternalMeetingId,omitempty" yaml:"external_meeting_id,omitempty"`
	MediaRegion       string          `json:"MediaRegion,omitempty"       yaml:"media_region,omitempty"`
	MediaPlacement    *MediaPlacement `json:"MediaPlacement,omitempty"    yaml:"media_placement,omitempty"`
}

// CreateMeetingRequest represents a request to create a meeting.
// An empty ClientRequestToken is replaced on the wire by a generated one.
type CreateMeetingRequest struct {
	CallOptions

	ClientRequestToken string `json:"ClientRequestToken"          validate:"omitempty,min=2,max=64"`
	ExternalMeetingID  string `json:"ExternalMeetingId,omitempty" validate:"omitempty,min=2,max=64"`
	MediaRegion        string `json:"MediaRegion,omitempty"`
	MeetingHostID      string `json:"MeetingHostId,omitempty"     validate:"omitempty,min=2,max=64"`
	Tags               []Tag  `json:"Tags,omitempty"              validate:"omitempty,max=50,dive"`
}

// GetMeetingRequest represents a request to fetch one meeting.
type GetMeetingRequest struct {
	CallOptions

	MeetingID string `json:"-" validate:"required"`
}

// ListMeetingsRequest represents a request to list meetings.
type ListMeetingsRequest struct {
	CallOptions
	ListParams
}

// DeleteMeetingRequest represents a request to end and delete a meeting.
type DeleteMeetingRequest struct {
	CallOptions

	MeetingID string `json:"-" validate:"required"`
}

// PhoneNumberCapabilities describes what a phone number can be used for.
type PhoneNumberCapabilities struct {
	InboundCall  bool `json:"InboundCall"  yaml:"inbound_call"`
	OutboundCall bool `json:"OutboundCall" yaml:"outbound_call"`
	InboundSMS   bool `json:"InboundSMS"   yaml:"inbound_sms"`
	OutboundSMS  bool `json:"OutboundSMS"  yaml:"outbound_sms"`
	InboundMMS   bool `json:"InboundMMS"   yaml:"inbound_mms"`
	OutboundMMS  bool `json:"OutboundMMS"  yaml:"outbound_mms"`
}

// PhoneNumber represents a provisioned phone number.
type PhoneNumber struct {
	PhoneNumberID    string                   `json:"PhoneNumberId"              yaml:"phone_number_id"`
	E164PhoneNumber  string                   `json:"E164PhoneNumber,omitempty"  yaml:"e164_phone_number,omitempty"`
	Country          string                   `json:"Country,omitempty"          yaml:"country,omitempty"`
	Type             string                   `json:"Type,omitempty"             yaml:"type,omitempty"`
	ProductType      string                   `json:"ProductType,omitempty"      yaml:"product_type,omitempty"`
	Status           string                   `json:"Status,omitempty"           yaml:"status,omitempty"`
	CallingName      string                   `json:"CallingName,omitempty"      yaml:"calling_name,omitempty"`
	Capabilities     *PhoneNumberCapabilities `json:"Capabilities,omitempty"     yaml:"capabilities,omitempty"`
	CreatedTimestamp *time.Time               `json:"CreatedTimestamp,omitempty" yaml:"created_timestamp,omitempty"`
	UpdatedTimestamp *time.Time               `json:"UpdatedTimestamp,omitempty" yaml:"updated_timestamp,omitempty"`
}

// GetPhoneNumberRequest represents a request to fetch one phone number.
type GetPhoneNumberRequest struct {
	CallOptions

	PhoneNumberID string `json:"-" validate:"required"`
}

// ListPhoneNumbersRequest represents a request to list phone numbers.
type ListPhoneNumbersRequest struct {
	CallOptions
	ListParams

	Status      string `json:"-"`
	ProductType string `json:"-" validate:"omitempty,oneof=BusinessCalling VoiceConnector SipMediaApplicationDialIn"`
}

// DeletePhoneNumberRequest represents a request to release a phone number.
type DeletePhoneNumberRequest struct {
	CallOptions

	PhoneNumberID string `json:"-" validate:"required"`
}

// VoiceConnector represents a SIP trunk into the telephony network.
type VoiceConnector struct {
	VoiceConnectorID  string     `json:"VoiceConnectorId"           yaml:"voice_connector_id"`
	Name              string     `json:"Name"                       yaml:"name"`
	AwsRegion         string     `json:"AwsRegion,omitempty"        yaml:"aws_region,omitempty"`
	OutboundHostName  string     `json:"OutboundHostName,omitempty" yaml:"outbound_host_name,omitempty"`
	RequireEncryption bool       `json:"RequireEncryption"          yaml:"require_encryption"`
	CreatedTimestamp  *time.Time `json:"CreatedTimestamp,omitempty" yaml:"created_timestamp,omitempty"`
	UpdatedTimestamp  *time.Time `json:"UpdatedTimestamp,omitempty" yaml:"updated_timestamp,omitempty"`
}

// CreateVoiceConnectorRequest represents a request to create a voice connector.
type CreateVoiceConnectorRequest struct {
	CallOptions

	Name              string `json:"Name"                validate:"required,min=1,max=256"`
	AwsRegion         string `json:"AwsRegion,omitempty" validate:"omitempty,oneof=us-east-1 us-west-2"`
	RequireEncryption *bool  `json:"RequireEncryption"   validate:"required"`
}

// GetVoiceConnectorRequest represents a request to fetch one voice connector.
type GetVoiceConnectorRequest struct {
	CallOptions

	VoiceConnectorID string `json:"-" validate:"required"`
}

// ListVoiceConnectorsRequest represents a request to list voice connectors.
type ListVoiceConnectorsRequest struct {
	CallOptions
	ListParams
}

// DeleteVoiceConnectorRequest represents a request to delete a voice connector.
type DeleteVoiceConnectorRequest struct {
	CallOptions

	VoiceConnectorID string `json:"-" validate:"required"`
}
