// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
)

// Resource is an Azure resource of the flat account tree.
type Resource struct {
	Id       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Location string `json:"location"`
}

// SqlServerFilter restricts resource listing to SQL servers.
// Filter values follow https://learn.microsoft.com/en-us/rest/api/resources/resources/list
const SqlServerFilter = "resourceType eq 'Microsoft.Sql/servers'"

// ResourcesService lists resources within a subscription.
type ResourcesService struct {
	credential       azcore.TokenCredential
	armClientOptions *arm.ClientOptions
}

func NewResourcesService(credential azcore.TokenCredential, options *arm.ClientOptions) *ResourcesService {
	return &ResourcesService{
		credential:       credential,
		armClientOptions: options,
	}
}

// ListResources returns the resources of the subscription matching the
// filter. An empty filter lists every resource.
func (s *ResourcesService) ListResources(ctx context.Context, subscriptionId string, filter string) ([]*Resource, error) {
	client, err := armresources.NewClient(subscriptionId, s.credential, s.armClientOptions)
	if err != nil {
		return nil, fmt.Errorf("creating resources client: %w", err)
	}

	options := armresources.ClientListOptions{}
	if filter != "" {
		options.Filter = &filter
	}

	resources := []*Resource{}
	pager := client.NewListPager(&options)

	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed getting next page of resources: %w", err)
		}

		for _, resource := range page.ResourceListResult.Value {
			resources = append(resources, &Resource{
				Id:       toValue(resource.ID),
				Name:     toValue(resource.Name),
				Type:     toValue(resource.Type),
				Location: toValue(resource.Location),
			})
		}
	}

	return resources, nil
}
