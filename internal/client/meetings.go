package client

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/fivetwenty-io/comms-client/internal/executor"
	"github.com/fivetwenty-io/comms-client/pkg/comms"
)

var (
	createMeetingOp = executor.Operation[*comms.CreateMeetingRequest, *comms.Meeting]{
		Name: "CreateMeeting",
		Encode: func(in *comms.CreateMeetingRequest) (*executor.WireRequest, error) {
			// Encode a copy so the caller's request keeps its empty token.
			body := *in
			if body.ClientRequestToken == "" {
				body.ClientRequestToken = uuid.NewString()
			}

			return executor.NewJSONRequest(http.MethodPost, executor.PathOf("meetings"), nil, &body)
		},
		Decode: executor.DecodeField[comms.Meeting]("Meeting"),
	}

	getMeetingOp = executor.Operation[*comms.GetMeetingRequest, *comms.Meeting]{
		Name: "GetMeeting",
		Encode: func(in *comms.GetMeetingRequest) (*executor.WireRequest, error) {
			return executor.NewRequest(http.MethodGet, executor.PathOf("meetings", in.MeetingID), nil), nil
		},
		Decode: executor.DecodeField[comms.Meeting]("Meeting"),
	}

	listMeetingsOp = executor.Operation[*comms.ListMeetingsRequest, *comms.ListResponse[comms.Meeting]]{
		Name: "ListMeetings",
		Encode: func(in *comms.ListMeetingsRequest) (*executor.WireRequest, error) {
			return executor.NewRequest(http.MethodGet, executor.PathOf("meetings"), in.ToValues()), nil
		},
		Decode: decodeList[comms.Meeting]("Meetings"),
	}

	deleteMeetingOp = executor.Operation[*comms.DeleteMeetingRequest, struct{}]{
		Name: "DeleteMeeting",
		Encode: func(in *comms.DeleteMeetingRequest) (*executor.WireRequest, error) {
			return executor.NewRequest(http.MethodDelete, executor.PathOf("meetings", in.MeetingID), nil), nil
		},
		Decode: executor.DiscardBody,
	}
)

// MeetingsClient implements comms.MeetingsClient.
type MeetingsClient struct {
	executor *executor.Executor
}

// NewMeetingsClient creates a new meetings client.
func NewMeetingsClient(exec *executor.Executor) *MeetingsClient {
	return &MeetingsClient{
		executor: exec,
	}
}

// Create implements comms.MeetingsClient.Create.
func (c *MeetingsClient) Create(ctx context.Context, request *comms.CreateMeetingRequest) (*comms.Meeting, error) {
	return executor.Execute(ctx, c.executor, createMeetingOp, request)
}

// Get implements comms.MeetingsClient.Get.
func (c *MeetingsClient) Get(ctx context.Context, request *comms.GetMeetingRequest) (*comms.Meeting, error) {
	return executor.Execute(ctx, c.executor, getMeetingOp, request)
}

// List implements comms.MeetingsClient.List.
func (c *MeetingsClient) List(ctx context.Context, request *comms.ListMeetingsRequest) (*comms.ListResponse[comms.Meeting], error) {
	if request == nil {
		request = &comms.ListMeetingsRequest{}
	}

	return executor.Execute(ctx, c.executor, listMeetingsOp, request)
}

// Delete implements comms.MeetingsClient.Delete.
func (c *MeetingsClient) Delete(ctx context.Context, request *comms.DeleteMeetingRequest) error {
	_, err := executor.Execute(ctx, c.executor, deleteMeetingOp, request)

	return err
}
