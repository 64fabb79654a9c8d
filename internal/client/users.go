package client

import (
	"context"
	"net/http"

	"github.com/fivetwenty-io/comms-client/internal/executor"
	"github.com/fivetwenty-io/comms-client/pkg/comms"
)

var (
	getUserOp = executor.Operation[*comms.GetUserRequest, *comms.User]{
		Name: "GetUser",
		Encode: func(in *comms.GetUserRequest) (*executor.WireRequest, error) {
			return executor.NewRequest(http.MethodGet, executor.PathOf("accounts", in.AccountID, "users", in.UserID), nil), nil
		},
		Decode: executor.DecodeField[comms.User]("User"),
	}

	listUsersOp = executor.Operation[*comms.ListUsersRequest, *comms.ListResponse[comms.User]]{
		Name: "ListUsers",
		Encode: func(in *comms.ListUsersRequest) (*executor.WireRequest, error) {
			query := in.ToValues()

			if in.UserEmail != "" {
				query.Set("user-email", in.UserEmail)
			}

			if in.UserType != "" {
				query.Set("user-type", in.UserType)
			}

			return executor.NewRequest(http.MethodGet, executor.PathOf("accounts", in.AccountID, "users"), query), nil
		},
		Decode: decodeList[comms.User]("Users"),
	}

	updateUserOp = executor.Operation[*comms.UpdateUserRequest, *comms.User]{
		Name: "UpdateUser",
		Encode: func(in *comms.UpdateUserRequest) (*executor.WireRequest, error) {
			return executor.NewJSONRequest(http.MethodPost, executor.PathOf("accounts", in.AccountID, "users", in.UserID), nil, in)
		},
		Decode: executor.DecodeField[comms.User]("User"),
	}
)

// UsersClient implements comms.UsersClient.
type UsersClient struct {
	executor *executor.Executor
}

// NewUsersClient creates a new users client.
func NewUsersClient(exec *executor.Executor) *UsersClient {
	return &UsersClient{
		executor: exec,
	}
}

// Get implements comms.UsersClient.Get.
func (c *UsersClient) Get(ctx context.Context, request *comms.GetUserRequest) (*comms.User, error) {
	return executor.Execute(ctx, c.executor, getUserOp, request)
}

// List implements comms.UsersClient.List.
func (c *UsersClient) List(ctx context.Context, request *comms.ListUsersRequest) (*comms.ListResponse[comms.User], error) {
	return executor.Execute(ctx, c.executor, listUsersOp, request)
}

// Update implements comms.UsersClient.Update.
func (c *UsersClient) Update(ctx context.Context, request *comms.UpdateUserRequest) (*comms.User, error) {
	return executor.Execute(ctx, c.executor, updateUserOp, request)
}
