package generator

import (
	"github.com/hashicorp/hcl/v2/hclwrite"

	"github.com/terrascope/tfgen/internal/models"
)

type kindPair struct {
	source Kind
	target Kind
}

// association renders the block for one connection between two resources.
// name returns the identifier of the primary block so duplicates can be
// detected before anything is written.
type association struct {
	name func(source, target, connection string) string
	emit func(f *fragment, source, target, name string)
}

var associations = map[kindPair]association{
	{KindEC2, KindEBS}: {
		name: func(source, target, connection string) string {
			if connection != "" {
				return connection
			}
			return source + "_" + target + "_attachment"
		},
		emit: volumeAttachment,
	},
	{KindEC2, KindS3}: accessAssociation(accessPolicy{
		comment:         "IAM role and policy for EC2 to access S3 bucket",
		service:         "ec2.amazonaws.com",
		actions:         []string{"s3:GetObject", "s3:PutObject", "s3:ListBucket"},
		resources:       bucketResources,
		instanceProfile: true,
	}),
	{KindLambda, KindDynamoDB}: accessAssociation(accessPolicy{
		comment: "IAM role and policy for Lambda to access DynamoDB",
		service: "lambda.amazonaws.com",
		actions: []string{
			"dynamodb:GetItem",
			"dynamodb:PutItem",
			"dynamodb:UpdateItem",
			"dynamodb:DeleteItem",
			"dynamodb:Query",
			"dynamodb:Scan",
		},
		resources: arnOf(KindDynamoDB),
	}),
	{KindLambda, KindS3}: accessAssociation(accessPolicy{
		comment:   "IAM role and policy for Lambda to access S3 bucket",
		service:   "lambda.amazonaws.com",
		actions:   []string{"s3:GetObject", "s3:PutObject", "s3:ListBucket"},
		resources: bucketResources,
	}),
	{KindLambda, KindCloudWatchLogs}: accessAssociation(accessPolicy{
		comment:   "IAM role and policy for Lambda to write CloudWatch logs",
		service:   "lambda.amazonaws.com",
		actions:   []string{"logs:CreateLogStream", "logs:PutLogEvents"},
		resources: logGroupResources,
	}),
}

// Associations lists the supported (source, target) kind pairs.
func Associations() map[Kind][]Kind {
	out := make(map[Kind][]Kind)
	for _, source := range kinds {
		for _, target := range kinds {
			if _, ok := associations[kindPair{source, target}]; ok {
				out[source] = append(out[source], target)
			}
		}
	}
	return out
}

// KindInfos describes every kind in declaration order.
func KindInfos() []models.KindInfo {
	targets := Associations()
	infos := make([]models.KindInfo, 0, len(kinds))
	for _, k := range kinds {
		info := models.KindInfo{
			Kind:          string(k),
			TerraformType: k.TerraformType(),
		}
		for _, target := range targets[k] {
			info.Associations = append(info.Associations, string(target))
		}
		infos = append(infos, info)
	}
	return infos
}

func volumeAttachment(f *fragment, source, target, name string) {
	body := f.resource("aws_volume_attachment", name)
	setString(body, "device_name", "/dev/sdh")
	body.SetAttributeTraversal("volume_id", ref(KindEBS.TerraformType(), target, "id"))
	body.SetAttributeTraversal("instance_id", ref(KindEC2.TerraformType(), source, "id"))
}

type accessPolicy struct {
	comment         string
	service         string
	actions         []string
	resources       func(target string) hclwrite.Tokens
	instanceProfile bool
}

func accessAssociation(p accessPolicy) association {
	return association{
		name: func(source, target, _ string) string {
			return source + "_" + target + "_access"
		},
		emit: p.emit,
	}
}

func (p accessPolicy) emit(f *fragment, _, target, name string) {
	f.comment(p.comment)

	role := f.resource("aws_iam_role", name)
	setString(role, "name", dashed(name))
	role.SetAttributeRaw("assume_role_policy", jsonencode(object(
		attr{"Version", str("2012-10-17")},
		attr{"Statement", tuple(object(
			attr{"Action", str("sts:AssumeRole")},
			attr{"Effect", str("Allow")},
			attr{"Principal", object(attr{"Service", str(p.service)})},
		))},
	)))

	policy := f.resource("aws_iam_role_policy", name+"_policy")
	setString(policy, "name", dashed(name)+"-policy")
	policy.SetAttributeTraversal("role", ref("aws_iam_role", name, "id"))
	policy.SetAttributeRaw("policy", jsonencode(object(
		attr{"Version", str("2012-10-17")},
		attr{"Statement", tuple(object(
			attr{"Action", stringTuple(p.actions)},
			attr{"Effect", str("Allow")},
			attr{"Resource", p.resources(target)},
		))},
	)))

	if p.instanceProfile {
		profile := f.resource("aws_iam_instance_profile", name+"_profile")
		setString(profile, "name", dashed(name)+"-profile")
		profile.SetAttributeTraversal("role", ref("aws_iam_role", name, "name"))
	}
}

func arnOf(kind Kind) func(string) hclwrite.Tokens {
	return func(target string) hclwrite.Tokens {
		return hclwrite.TokensForTraversal(ref(kind.TerraformType(), target, "arn"))
	}
}

func bucketResources(target string) hclwrite.Tokens {
	arn := ref(KindS3.TerraformType(), target, "arn")
	return tuple(
		hclwrite.TokensForTraversal(arn),
		interpolate("", arn, "/*"),
	)
}

func logGroupResources(target string) hclwrite.Tokens {
	return interpolate("", ref(KindCloudWatchLogs.TerraformType(), target, "arn"), ":*")
}
