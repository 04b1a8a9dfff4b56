// Package generator turns a diagram of typed nodes and connections into
// Terraform configuration for the AWS provider.
package generator

// Kind is a supported node type.
type Kind string

const (
	KindEC2            Kind = "ec2"
	KindS3             Kind = "s3"
	KindRDS            Kind = "rds"
	KindLambda         Kind = "lambda"
	KindDynamoDB       Kind = "dynamodb"
	KindEBS            Kind = "ebs"
	KindECS            Kind = "ecs"
	KindSubnet         Kind = "subnet"
	KindSecurityGroup  Kind = "securitygroup"
	KindCDN            Kind = "cdn"
	KindCloudWatchLogs Kind = "cloudwatchlogs"
)

var kinds = []Kind{
	KindEC2,
	KindS3,
	KindRDS,
	KindLambda,
	KindDynamoDB,
	KindEBS,
	KindECS,
	KindSubnet,
	KindSecurityGroup,
	KindCDN,
	KindCloudWatchLogs,
}

// Kinds returns every supported kind in a stable order.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// ParseKind reports whether s names a supported kind.
func ParseKind(s string) (Kind, bool) {
	for _, k := range kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// TerraformType is the primary resource type emitted for the kind.
func (k Kind) TerraformType() string {
	switch k {
	case KindEC2:
		return "aws_instance"
	case KindS3:
		return "aws_s3_bucket"
	case KindRDS:
		return "aws_db_instance"
	case KindLambda:
		return "aws_lambda_function"
	case KindDynamoDB:
		return "aws_dynamodb_table"
	case KindEBS:
		return "aws_ebs_volume"
	case KindECS:
		return "aws_ecs_cluster"
	case KindSubnet:
		return "aws_subnet"
	case KindSecurityGroup:
		return "aws_security_group"
	case KindCDN:
		return "aws_cloudfront_distribution"
	case KindCloudWatchLogs:
		return "aws_cloudwatch_log_group"
	}
	return ""
}

// KindForTerraformType maps a primary resource type back to its kind.
func KindForTerraformType(resourceType string) (Kind, bool) {
	for _, k := range kinds {
		if k.TerraformType() == resourceType {
			return k, true
		}
	}
	return "", false
}

type outputSpec struct {
	suffix      string
	attribute   string
	description string
}

func (k Kind) output() outputSpec {
	switch k {
	case KindEC2:
		return outputSpec{"public_ip", "public_ip", "Public IP of %s"}
	case KindS3:
		return outputSpec{"bucket_name", "bucket", "Name of %s"}
	case KindRDS:
		return outputSpec{"endpoint", "endpoint", "Endpoint of %s"}
	case KindLambda:
		return outputSpec{"function_name", "function_name", "Name of %s"}
	case KindDynamoDB:
		return outputSpec{"table_name", "name", "Name of %s"}
	case KindEBS:
		return outputSpec{"volume_id", "id", "ID of %s"}
	case KindECS:
		return outputSpec{"cluster_arn", "arn", "ARN of %s"}
	case KindSubnet:
		return outputSpec{"subnet_id", "id", "ID of %s"}
	case KindSecurityGroup:
		return outputSpec{"security_group_id", "id", "ID of %s"}
	case KindCDN:
		return outputSpec{"domain_name", "domain_name", "Domain name of %s"}
	case KindCloudWatchLogs:
		return outputSpec{"log_group_arn", "arn", "ARN of %s"}
	}
	return outputSpec{}
}
