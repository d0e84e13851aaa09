package repository

import (
	"time"

	"tabman-backend/internal/domain"
	"tabman-backend/internal/store"
	appErrors "tabman-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
)

func nowUTC() time.Time {
	return time.Now().UTC()
}

// tabRecord is the stored shape of a Tab item.
type tabRecord struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	URL        string `dynamodbav:"URL"`
	Title      string `dynamodbav:"Title"`
	Notes      string `dynamodbav:"Notes,omitempty"`
	IsArchived bool   `dynamodbav:"IsArchived"`
	CreatedAt  string `dynamodbav:"CreatedAt"`
	UpdatedAt  string `dynamodbav:"UpdatedAt"`
	GSI1PK     string `dynamodbav:"GSI1PK"`
	GSI1SK     string `dynamodbav:"GSI1SK"`
}

// tagRecord is the stored shape of a Tag item. The tag name is the sort
// key; there is no separate surrogate id.
type tagRecord struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	Name       string `dynamodbav:"Name"`
	CreatedAt  string `dynamodbav:"CreatedAt"`
	GSI1PK     string `dynamodbav:"GSI1PK"`
	GSI1SK     string `dynamodbav:"GSI1SK"`
}

// tabTagRecord is the stored shape of an association item. GSI2 projects
// (tag name, tab id) so all tabs for a tag resolve without a scan.
type tabTagRecord struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	TabID      string `dynamodbav:"TabID"`
	TagName    string `dynamodbav:"TagName"`
	CreatedAt  string `dynamodbav:"CreatedAt"`
	GSI1PK     string `dynamodbav:"GSI1PK"`
	GSI1SK     string `dynamodbav:"GSI1SK"`
	GSI2PK     string `dynamodbav:"GSI2PK"`
	GSI2SK     string `dynamodbav:"GSI2SK"`
}

func marshalTab(tab domain.Tab) (store.Item, error) {
	created := tab.CreatedAt.UTC().Format(timeLayout)
	item, err := attributevalue.MarshalMap(tabRecord{
		PK:         entityTab,
		SK:         tab.ID,
		EntityType: entityTab,
		URL:        tab.URL,
		Title:      tab.Title,
		Notes:      tab.Notes,
		IsArchived: tab.Archived,
		CreatedAt:  created,
		UpdatedAt:  tab.UpdatedAt.UTC().Format(timeLayout),
		GSI1PK:     entityTab,
		GSI1SK:     created,
	})
	if err != nil {
		return nil, appErrors.NewStorage("failed to marshal tab item", err)
	}
	return item, nil
}

func unmarshalTab(item store.Item) (domain.Tab, error) {
	var rec tabRecord
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return domain.Tab{}, appErrors.NewStorage("failed to unmarshal tab item", err)
	}
	if rec.EntityType != entityTab || rec.SK == "" || rec.URL == "" {
		return domain.Tab{}, appErrors.NewStorage("malformed tab record "+rec.SK, nil)
	}
	createdAt, err := time.Parse(timeLayout, rec.CreatedAt)
	if err != nil {
		return domain.Tab{}, appErrors.NewStorage("malformed tab record "+rec.SK, err)
	}
	updatedAt, err := time.Parse(timeLayout, rec.UpdatedAt)
	if err != nil {
		updatedAt = createdAt
	}
	return domain.Tab{
		ID:        rec.SK,
		URL:       rec.URL,
		Title:     rec.Title,
		Notes:     rec.Notes,
		Archived:  rec.IsArchived,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

func marshalTag(tag domain.Tag) (store.Item, error) {
	created := tag.CreatedAt.UTC().Format(timeLayout)
	item, err := attributevalue.MarshalMap(tagRecord{
		PK:         entityTag,
		SK:         tag.Name,
		EntityType: entityTag,
		Name:       tag.Name,
		CreatedAt:  created,
		GSI1PK:     entityTag,
		GSI1SK:     created,
	})
	if err != nil {
		return nil, appErrors.NewStorage("failed to marshal tag item", err)
	}
	return item, nil
}

func unmarshalTag(item store.Item) (domain.Tag, error) {
	var rec tagRecord
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return domain.Tag{}, appErrors.NewStorage("failed to unmarshal tag item", err)
	}
	if rec.EntityType != entityTag || rec.Name == "" {
		return domain.Tag{}, appErrors.NewStorage("malformed tag record "+rec.SK, nil)
	}
	createdAt, err := time.Parse(timeLayout, rec.CreatedAt)
	if err != nil {
		return domain.Tag{}, appErrors.NewStorage("malformed tag record "+rec.SK, err)
	}
	return domain.Tag{Name: rec.Name, CreatedAt: createdAt}, nil
}

func marshalTabTag(assoc domain.TabTag) (store.Item, error) {
	key := tabTagKey(assoc.TabID, assoc.TagName)
	created := assoc.CreatedAt.UTC().Format(timeLayout)
	item, err := attributevalue.MarshalMap(tabTagRecord{
		PK:         key.PartitionKey,
		SK:         key.SortKey,
		EntityType: entityTabTag,
		TabID:      assoc.TabID,
		TagName:    assoc.TagName,
		CreatedAt:  created,
		GSI1PK:     entityTabTag,
		GSI1SK:     created,
		GSI2PK:     assoc.TagName,
		GSI2SK:     assoc.TabID,
	})
	if err != nil {
		return nil, appErrors.NewStorage("failed to marshal association item", err)
	}
	return item, nil
}

func unmarshalTabTag(item store.Item) (domain.TabTag, error) {
	var rec tabTagRecord
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return domain.TabTag{}, appErrors.NewStorage("failed to unmarshal association item", err)
	}
	if rec.EntityType != entityTabTag || rec.TabID == "" || rec.TagName == "" {
		return domain.TabTag{}, appErrors.NewStorage("malformed association record "+rec.SK, nil)
	}
	createdAt, err := time.Parse(timeLayout, rec.CreatedAt)
	if err != nil {
		return domain.TabTag{}, appErrors.NewStorage("malformed association record "+rec.SK, err)
	}
	return domain.TabTag{TabID: rec.TabID, TagName: rec.TagName, CreatedAt: createdAt}, nil
}
