// Package dynamodb stores encoded sets as DynamoDB items.
//
// Each set is one item: the partition key "name" (string) holds the set
// name and the binary attribute "blob" holds the encoded bytes. Items are
// limited to 400 KB, so the store suits small and medium sets; wrap it in a
// setstore.CompressedStore to stretch the limit.
//
// Create the table with:
//
//	aws dynamodb create-table \
//	  --table-name idset-sets \
//	  --attribute-definitions AttributeName=name,AttributeType=S \
//	  --key-schema AttributeName=name,KeyType=HASH \
//	  --billing-mode PAY_PER_REQUEST
package dynamodb
