package generator

import (
	"testing"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terrascope/tfgen/internal/models"
)

func connect(t *testing.T, source, target Kind) (*hclsyntax.Body, string) {
	t.Helper()
	doc, err := New(DefaultOptions()).Generate(models.Diagram{
		Nodes: []models.Node{
			{ID: "src", Type: string(source)},
			{ID: "dst", Type: string(target)},
		},
		Connections: []models.Connection{{SourceID: "src", TargetID: "dst"}},
	})
	require.NoError(t, err)
	require.Empty(t, doc.Warnings)
	require.Equal(t, 1, doc.Stats.Associations)
	return parseBody(t, doc.Main), doc.Main
}

func TestAssociations(t *testing.T) {
	t.Run("ec2 to ebs attaches the volume", func(t *testing.T) {
		body, _ := connect(t, KindEC2, KindEBS)

		attachment := findBlock(t, body, "resource", "aws_volume_attachment", "src_dst_attachment").Body
		assert.Equal(t, "/dev/sdh", stringAttr(t, attachment, "device_name"))
		assert.Equal(t, []string{"aws_ebs_volume.dst.id"}, references(t, attachment, "volume_id"))
		assert.Equal(t, []string{"aws_instance.src.id"}, references(t, attachment, "instance_id"))
	})

	t.Run("ec2 to s3 grants bucket access through an instance profile", func(t *testing.T) {
		body, main := connect(t, KindEC2, KindS3)

		assert.Contains(t, main, "# IAM role and policy for EC2 to access S3 bucket\n")
		role := findBlock(t, body, "resource", "aws_iam_role", "src_dst_access").Body
		assert.Equal(t, "src-dst-access", stringAttr(t, role, "name"))
		assert.Contains(t, main, `Service = "ec2.amazonaws.com"`)

		policy := findBlock(t, body, "resource", "aws_iam_role_policy", "src_dst_access_policy").Body
		assert.Equal(t, []string{"aws_iam_role.src_dst_access.id"}, references(t, policy, "role"))
		assert.Equal(t, []string{"aws_s3_bucket.dst.arn", "aws_s3_bucket.dst.arn"}, references(t, policy, "policy"))
		assert.Contains(t, main, `"s3:GetObject"`)

		profile := findBlock(t, body, "resource", "aws_iam_instance_profile", "src_dst_access_profile").Body
		assert.Equal(t, []string{"aws_iam_role.src_dst_access.name"}, references(t, profile, "role"))
	})

	t.Run("lambda to dynamodb grants table access", func(t *testing.T) {
		body, main := connect(t, KindLambda, KindDynamoDB)

		assert.Contains(t, main, `Service = "lambda.amazonaws.com"`)
		policy := findBlock(t, body, "resource", "aws_iam_role_policy", "src_dst_access_policy").Body
		assert.Equal(t, []string{"aws_dynamodb_table.dst.arn"}, references(t, policy, "policy"))
		for _, action := range []string{"GetItem", "PutItem", "UpdateItem", "DeleteItem", "Query", "Scan"} {
			assert.Contains(t, main, `"dynamodb:`+action+`"`)
		}
		assert.False(t, hasBlock(body, "resource", "aws_iam_instance_profile", "src_dst_access_profile"))
	})

	t.Run("lambda to s3 grants bucket access", func(t *testing.T) {
		body, main := connect(t, KindLambda, KindS3)

		assert.Contains(t, main, "# IAM role and policy for Lambda to access S3 bucket\n")
		policy := findBlock(t, body, "resource", "aws_iam_role_policy", "src_dst_access_policy").Body
		assert.Equal(t, []string{"aws_s3_bucket.dst.arn", "aws_s3_bucket.dst.arn"}, references(t, policy, "policy"))
	})

	t.Run("lambda to cloudwatch logs grants log writes", func(t *testing.T) {
		body, main := connect(t, KindLambda, KindCloudWatchLogs)

		policy := findBlock(t, body, "resource", "aws_iam_role_policy", "src_dst_access_policy").Body
		assert.Equal(t, []string{"aws_cloudwatch_log_group.dst.arn"}, references(t, policy, "policy"))
		assert.Contains(t, main, `"logs:PutLogEvents"`)
	})

	t.Run("supported pairs are listed by source", func(t *testing.T) {
		assoc := Associations()

		assert.Equal(t, []Kind{KindS3, KindEBS}, assoc[KindEC2])
		assert.Equal(t, []Kind{KindS3, KindDynamoDB, KindCloudWatchLogs}, assoc[KindLambda])
		assert.NotContains(t, assoc, KindS3)
	})
}

func TestKindInfos(t *testing.T) {
	infos := KindInfos()

	require.Len(t, infos, len(Kinds()))
	assert.Equal(t, models.KindInfo{
		Kind:          "lambda",
		TerraformType: "aws_lambda_function",
		Associations:  []string{"s3", "dynamodb", "cloudwatchlogs"},
	}, infos[3])
	assert.Nil(t, infos[1].Associations)
}
